// Package registry loads court registry seed files.
package registry

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

// DefaultCity is assigned to courts whose seed entry names no city.
const DefaultCity = "Antalya"

// Districts are the Antalya districts recognized in court names.
var Districts = []string{
	"Akseki", "Aksu", "Alanya", "Demre", "Döşemealtı", "Elmalı", "Finike",
	"Gazipaşa", "Gündoğmuş", "İbradı", "Kaş", "Kemer", "Kepez", "Konyaaltı",
	"Korkuteli", "Kumluca", "Manavgat", "Muratpaşa", "Serik",
}

var listItem = regexp.MustCompile(`^\d+\.\s`)

type courtSeed struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	District string `json:"district"`
	Type     string `json:"type"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Notes    string `json:"notes"`
}

// ParseCourtsJSON validates data against the seed schema and decodes it.
func ParseCourtsJSON(data []byte) ([]*entity.Court, error) {
	if err := ValidateJSONAgainstSchema(courtListSchema(), data); err != nil {
		return nil, common.NewAppError("INVALID_SEED", "court seed", errors.Join(common.ErrValidation, err))
	}
	var seeds []courtSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, common.NewAppError("INVALID_SEED", "court seed", errors.Join(common.ErrInvalidInput, err))
	}
	courts := make([]*entity.Court, 0, len(seeds))
	for _, s := range seeds {
		c := &entity.Court{
			Name:     strings.TrimSpace(s.Name),
			City:     strings.TrimSpace(s.City),
			District: utils.StrPtr(s.District),
			Type:     utils.StrPtr(s.Type),
			Address:  utils.StrPtr(s.Address),
			Phone:    utils.StrPtr(s.Phone),
			Email:    utils.StrPtr(s.Email),
			Contact:  utils.StrPtr(s.Contact),
			Notes:    utils.StrPtr(s.Notes),
		}
		if c.City == "" {
			c.City = DefaultCity
		}
		if c.District == nil {
			c.District = DetectDistrict(c.Name)
		}
		courts = append(courts, c)
	}
	return courts, nil
}

// ParseCourtsList reads a numbered list ("1. 5. Aile Mahkemesi") as found in
// Markdown notes. Lines that are not list items are ignored.
func ParseCourtsList(r io.Reader, city string) ([]*entity.Court, error) {
	if city == "" {
		city = DefaultCity
	}
	var courts []*entity.Court
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !listItem.MatchString(line) {
			continue
		}
		name := strings.TrimSpace(listItem.ReplaceAllString(line, ""))
		if name == "" {
			continue
		}
		courts = append(courts, &entity.Court{Name: name, City: city, District: DetectDistrict(name)})
	}
	if err := sc.Err(); err != nil {
		return nil, common.NewAppError("SOURCE_READ", "court list", err)
	}
	return courts, nil
}

// DetectDistrict returns the first known district named in a court name.
func DetectDistrict(name string) *string {
	for _, d := range Districts {
		if strings.Contains(name, d) {
			district := d
			return &district
		}
	}
	return nil
}

type CourtCreator interface {
	CreateCourt(ctx context.Context, court *entity.Court) (*entity.Court, error)
}

// SeedResult counts the outcome of a seeding run.
type SeedResult struct {
	Created  int
	Existing int
	Failed   int
	Total    int
}

// SeedCourts inserts courts, skipping names that are already registered.
func SeedCourts(ctx context.Context, store CourtCreator, courts []*entity.Court, logger *slog.Logger) SeedResult {
	if logger == nil {
		logger = slog.Default()
	}
	res := SeedResult{Total: len(courts)}
	for _, c := range courts {
		_, err := store.CreateCourt(ctx, c)
		switch {
		case errors.Is(err, common.ErrDuplicate):
			res.Existing++
		case err != nil:
			res.Failed++
			logger.Warn("seed.court.failed", "name", c.Name, "error", err)
		default:
			res.Created++
			logger.Debug("seed.court.ok", "name", c.Name)
		}
	}
	logger.Info("seed.courts.done", "created", res.Created, "existing", res.Existing, "failed", res.Failed, "total", res.Total)
	return res
}

// LoadCourtsFile reads a JSON seed file, or a numbered list for any other extension.
func LoadCourtsFile(path, city string) ([]*entity.Court, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, common.NewAppError("SOURCE_READ", path, err)
		}
		return ParseCourtsJSON(data)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewAppError("SOURCE_READ", path, err)
	}
	defer f.Close()
	return ParseCourtsList(f, city)
}
