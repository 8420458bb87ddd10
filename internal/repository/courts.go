package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

type CourtRepository interface {
	ListCourts(ctx context.Context) ([]*entity.Court, error)
	FindByName(ctx context.Context, name string) (*entity.Court, error)
	CreateCourt(ctx context.Context, court *entity.Court) (*entity.Court, error)
	CountCourts(ctx context.Context) (int, error)
}

type courtRepository struct {
	client *Client
	logger *slog.Logger
}

func NewCourtRepository(client *Client, logger *slog.Logger) CourtRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &courtRepository{
		client: client,
		logger: logger,
	}
}

var courtColumns = []string{
	"id", "name", "city", "district", "type", "address", "phone", "email",
	"contact", "notes", "created_at", "updated_at",
}

type courtRow struct {
	ID        uuid.UUID `sql:"id"`
	Name      string    `sql:"name"`
	City      string    `sql:"city"`
	District  string    `sql:"district"`
	Type      string    `sql:"type"`
	Address   *string   `sql:"address"`
	Phone     *string   `sql:"phone"`
	Email     *string   `sql:"email"`
	Contact   *string   `sql:"contact"`
	Notes     *string   `sql:"notes"`
	CreatedAt time.Time `sql:"created_at"`
	UpdatedAt time.Time `sql:"updated_at"`
}

func (r courtRow) toEntity() *entity.Court {
	return &entity.Court{
		ID:        r.ID,
		Name:      r.Name,
		City:      r.City,
		District:  utils.StrPtr(r.District),
		Type:      utils.StrPtr(r.Type),
		Address:   r.Address,
		Phone:     r.Phone,
		Email:     r.Email,
		Contact:   r.Contact,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListCourts returns the registry in a stable order (by name).
func (r *courtRepository) ListCourts(ctx context.Context) ([]*entity.Court, error) {
	b := r.client.sql()
	q := b.Select(courtColumns...).From(b.Table(tableCourts)).OrderBy(entsql.Asc("name"))
	var rows []courtRow
	if err := r.client.query(ctx, q, &rows); err != nil {
		r.logger.Error("failed to list courts", "error", err)
		return nil, storeError(err, "list courts")
	}
	result := make([]*entity.Court, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

// FindByName looks a court up by its exact name.
func (r *courtRepository) FindByName(ctx context.Context, name string) (*entity.Court, error) {
	b := r.client.sql()
	q := b.Select(courtColumns...).From(b.Table(tableCourts)).Where(entsql.EQ("name", name)).Limit(1)
	var rows []courtRow
	if err := r.client.query(ctx, q, &rows); err != nil {
		r.logger.Error("failed to find court", "name", name, "error", err)
		return nil, storeError(err, "find court")
	}
	if len(rows) == 0 {
		return nil, common.NewAppError("COURT_NOT_FOUND", name, common.ErrNotFound)
	}
	return rows[0].toEntity(), nil
}

// CreateCourt inserts a court, detecting its type from the name when unset.
// A taken name yields ErrDuplicate.
func (r *courtRepository) CreateCourt(ctx context.Context, court *entity.Court) (*entity.Court, error) {
	courtType := utils.StrOrEmpty(court.Type)
	if courtType == "" {
		if t, ok := constants.DetectCourtType(court.Name); ok {
			courtType = string(t)
		}
	}
	v := common.NewValidator().
		Field("name", court.Name, common.Required, common.MinLength(3), common.MaxLength(200)).
		Field("city", court.City, common.Required, common.MaxLength(100))
	if courtType != "" {
		v.Field("type", courtType, common.OneOf(constants.CourtTypeStrings()...))
	}
	if v.HasErrors() {
		return nil, v.Error()
	}

	now := time.Now().UTC()
	created := *court
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	created.Name = strings.TrimSpace(court.Name)
	created.Type = utils.StrPtr(courtType)
	created.CreatedAt, created.UpdatedAt = now, now

	q := r.client.sql().Insert(tableCourts).
		Columns(courtColumns...).
		Values(created.ID, created.Name, created.City, utils.StrOrEmpty(created.District), courtType,
			created.Address, created.Phone, created.Email, created.Contact, created.Notes, now, now)
	if _, err := r.client.exec(ctx, q); err != nil {
		r.logger.Error("failed to create court", "name", created.Name, "error", err)
		return nil, storeError(err, "create court "+created.Name)
	}
	r.logger.Debug("court created", "court_id", created.ID, "name", created.Name)
	return &created, nil
}

func (r *courtRepository) CountCourts(ctx context.Context) (int, error) {
	b := r.client.sql()
	n, err := r.client.count(ctx, b.Select().Count().From(b.Table(tableCourts)))
	if err != nil {
		return 0, storeError(err, "count courts")
	}
	return n, nil
}
