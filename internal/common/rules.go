package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
)

const (
	StrategyFirstContains  = "first-contains"
	StrategyBestSimilarity = "best-similarity"

	UnresolvedRecord = "record"
	UnresolvedCreate = "create"

	BackfillRandom      = "random"
	BackfillFixedOffset = "fixed-offset"
)

// ImportRules tunes how bank descriptions are parsed and reconciled.
type ImportRules struct {
	Parser     ParserRules     `yaml:"parser"`
	Resolution ResolutionRules `yaml:"resolution"`
	Tiers      TierRules       `yaml:"tiers"`
	Amounts    AmountRules     `yaml:"amounts"`
	Backfill   BackfillRules   `yaml:"backfill"`
}

// ParserRules configures description eligibility and the strip/match pipeline.
type ParserRules struct {
	Markers          []string `yaml:"markers"`
	CashierKeyword   string   `yaml:"cashier_keyword"`
	TransferPrefixes []string `yaml:"transfer_prefixes"`
	PayerSuffixes    []string `yaml:"payer_suffixes"`
	CityPrefixes     []string `yaml:"city_prefixes"`
	CaseTypes        []string `yaml:"case_types"`
	Fallback         bool     `yaml:"fallback"`
}

// ResolutionRules configures court resolution and the unresolved policy.
type ResolutionRules struct {
	Strategy        string `yaml:"strategy"`
	MinScore        int    `yaml:"min_score"`
	OnUnresolved    string `yaml:"on_unresolved"`
	PlaceholderCity string `yaml:"placeholder_city"`
	PlaceholderType string `yaml:"placeholder_type"`
}

// TierRules are the near-duplicate warning thresholds.
type TierRules struct {
	Likely   int `yaml:"likely"`
	Probable int `yaml:"probable"`
	Possible int `yaml:"possible"`
}

type AmountRules struct {
	VATRate float64 `yaml:"vat_rate"`
	// Synthetic base amounts for sources that carry no amount.
	SyntheticBaseMin int `yaml:"synthetic_base_min"`
	SyntheticBaseMax int `yaml:"synthetic_base_max"`
}

type BackfillRules struct {
	Variant string `yaml:"variant"`
}

// DefaultImportRules returns the built-in rules for Antalya cashier office exports.
func DefaultImportRules() *ImportRules {
	return &ImportRules{
		Parser: ParserRules{
			Markers:          []string{"MAHKEMELER VEZNESİ", "İDARE MAHKEMESİ", "BÖLGE ADLİYE"},
			CashierKeyword:   "VEZNESİ",
			TransferPrefixes: []string{"EFT", "FAST", "HAVALE"},
			PayerSuffixes:    []string{"RAMAZAN ÇATAL"},
			CityPrefixes:     []string{"Antalya"},
			CaseTypes:        []string{"Esas", "Talimat", "D.İş", "Satış Memu", "Satış"},
			Fallback:         true,
		},
		Resolution: ResolutionRules{
			Strategy:        StrategyFirstContains,
			MinScore:        60,
			OnUnresolved:    UnresolvedRecord,
			PlaceholderCity: constants.UnknownCity,
			PlaceholderType: string(constants.CourtCivilFirstInstance),
		},
		Tiers: TierRules{Likely: 90, Probable: 75, Possible: 60},
		Amounts: AmountRules{
			VATRate:          20,
			SyntheticBaseMin: 1000,
			SyntheticBaseMax: 4999,
		},
		Backfill: BackfillRules{Variant: BackfillRandom},
	}
}

// LoadImportRules reads YAML rules from path on top of DefaultImportRules.
// Environment variables in the file are expanded. An empty path returns the defaults.
func LoadImportRules(path string) (*ImportRules, error) {
	rules := DefaultImportRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("read rules %s", path), err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("parse rules %s", path), err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate checks that the rules are internally consistent.
func (r *ImportRules) Validate() error {
	v := NewValidator()
	v.Field("resolution.strategy", r.Resolution.Strategy, OneOf(StrategyFirstContains, StrategyBestSimilarity))
	v.Field("resolution.on_unresolved", r.Resolution.OnUnresolved, OneOf(UnresolvedRecord, UnresolvedCreate))
	v.Field("backfill.variant", r.Backfill.Variant, OneOf(BackfillRandom, BackfillFixedOffset))
	v.Field("parser.cashier_keyword", r.Parser.CashierKeyword, Required)
	if len(r.Parser.Markers) == 0 {
		v.Field("parser.markers", nil, Required)
	}
	if r.Resolution.OnUnresolved == UnresolvedCreate {
		v.Field("resolution.placeholder_city", r.Resolution.PlaceholderCity, Required)
	}
	if r.Resolution.MinScore < 0 || r.Resolution.MinScore > 100 {
		v.Field("resolution.min_score", r.Resolution.MinScore, invalid("must be within 0..100"))
	}
	if !(r.Tiers.Likely >= r.Tiers.Probable && r.Tiers.Probable >= r.Tiers.Possible && r.Tiers.Possible >= 0 && r.Tiers.Likely <= 100) {
		v.Field("tiers", r.Tiers, invalid("must satisfy 100 >= likely >= probable >= possible >= 0"))
	}
	if r.Amounts.VATRate < 0 || r.Amounts.VATRate >= 100 {
		v.Field("amounts.vat_rate", r.Amounts.VATRate, invalid("must be within [0,100)"))
	}
	if r.Amounts.SyntheticBaseMin <= 0 || r.Amounts.SyntheticBaseMax < r.Amounts.SyntheticBaseMin {
		v.Field("amounts.synthetic_base", r.Amounts.SyntheticBaseMin, invalid("requires 0 < min <= max"))
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrValidation)
	}
	return nil
}
