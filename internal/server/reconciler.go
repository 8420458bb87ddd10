package server

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/parser"
	"github.com/joseph-ayodele/tebligat-tracker/internal/resolver"
	"github.com/joseph-ayodele/tebligat-tracker/internal/similarity"
)

type CourtLister interface {
	ListCourts(ctx context.Context) ([]*entity.Court, error)
}

// ReconcilerService exposes parsing, resolution and near-duplicate checks
// against the live court registry.
type ReconcilerService struct {
	courts   CourtLister
	parser   *parser.Parser
	resolver *resolver.Resolver
	tiers    similarity.Tiers
	imports  *ImportRunner
	logger   *slog.Logger
}

// NewReconcilerService builds the service. imports may be nil, in which case
// ImportText is rejected.
func NewReconcilerService(courts CourtLister, rules *common.ImportRules, imports *ImportRunner, logger *slog.Logger) *ReconcilerService {
	if logger == nil {
		logger = slog.Default()
	}
	if rules == nil {
		rules = common.DefaultImportRules()
	}
	return &ReconcilerService{
		courts:   courts,
		parser:   parser.New(rules.Parser),
		resolver: resolver.FromRules(rules.Resolution),
		tiers: similarity.Tiers{
			Likely:   rules.Tiers.Likely,
			Probable: rules.Tiers.Probable,
			Possible: rules.Tiers.Possible,
		},
		imports: imports,
		logger:  logger,
	}
}

func field(in *structpb.Struct, key string) string {
	return strings.TrimSpace(in.GetFields()[key].GetStringValue())
}

func reply(out map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(out)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return s, nil
}

func (s *ReconcilerService) Similarity(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	a, b := field(in, "a"), field(in, "b")
	v := common.NewValidator().
		Field("a", a, common.Required).
		Field("b", b, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	score := similarity.Score(a, b)
	return reply(map[string]any{
		"score": score,
		"tier":  string(s.tiers.Classify(score)),
	})
}

func (s *ReconcilerService) ParseDescription(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	desc := field(in, "description")
	if desc == "" {
		return nil, common.InvalidArgumentError("description is required")
	}
	out := map[string]any{
		"eligible": s.parser.Eligible(desc),
		"matched":  false,
	}
	if m := s.parser.Parse(desc); m != nil {
		out["matched"] = true
		out["court_name"] = m.CourtName
		out["file_number"] = m.FileNumber
	}
	return reply(out)
}

func (s *ReconcilerService) ResolveCourt(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	name := field(in, "name")
	if name == "" {
		return nil, common.InvalidArgumentError("name is required")
	}
	registry, err := s.courts.ListCourts(ctx)
	if err != nil {
		s.logger.Error("rpc.resolve.failed", "error", err)
		return nil, common.ToStatus(err)
	}
	res, ok := s.resolver.Resolve(name, registry)
	if !ok {
		return reply(map[string]any{"resolved": false})
	}
	return reply(map[string]any{
		"resolved":   true,
		"court_id":   res.Court.ID.String(),
		"court_name": res.Court.Name,
		"method":     string(res.Method),
		"score":      res.Score,
	})
}

func (s *ReconcilerService) SuggestCourts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	query := field(in, "query")
	if query == "" {
		return nil, common.InvalidArgumentError("query is required")
	}
	opts := similarity.DefaultRankOptions()
	opts.Tiers = s.tiers
	opts.Threshold = s.tiers.Possible
	if limit := int(in.GetFields()["limit"].GetNumberValue()); limit > 0 {
		opts.Limit = limit
	}

	registry, err := s.courts.ListCourts(ctx)
	if err != nil {
		s.logger.Error("rpc.suggest.failed", "error", err)
		return nil, common.ToStatus(err)
	}
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = c.Name
	}

	suggestions := []any{}
	for _, sg := range similarity.Rank(query, names, opts) {
		suggestions = append(suggestions, map[string]any{
			"court_id": registry[sg.Index].ID.String(),
			"name":     sg.Value,
			"score":    sg.Score,
			"tier":     string(sg.Tier),
		})
	}
	return reply(map[string]any{"suggestions": suggestions})
}

func (s *ReconcilerService) ImportText(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.imports == nil {
		return nil, common.FailedPreconditionError("imports are disabled on this server")
	}
	name, text := field(in, "source"), in.GetFields()["text"].GetStringValue()
	if name == "" {
		name = "rpc"
	}
	if strings.TrimSpace(text) == "" {
		return nil, common.InvalidArgumentError("text is required")
	}

	summary, skipped, err := s.imports.ImportText(ctx, name, text)
	if err != nil {
		s.logger.Error("rpc.import.failed", "source", name, "error", err)
		return nil, common.ToStatus(err)
	}
	unresolved := []any{}
	for _, n := range summary.Unresolved() {
		unresolved = append(unresolved, n)
	}
	return reply(map[string]any{
		"run_id":           summary.RunID,
		"eligible":         summary.Eligible,
		"ignored":          summary.Ignored,
		"skipped":          skipped,
		"success":          summary.Success,
		"duplicate":        summary.Duplicate,
		"unresolved_court": summary.UnresolvedCourt,
		"parse_error":      summary.ParseError,
		"persist_failure":  summary.PersistFailure,
		"new_courts":       summary.NewCourts,
		"unresolved":       unresolved,
	})
}
