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
)

type VehicleRepository interface {
	ListVehicles(ctx context.Context) ([]*entity.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*entity.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *entity.Vehicle) (*entity.Vehicle, error)
	CountVehicles(ctx context.Context) (int, error)
}

type vehicleRepository struct {
	client *Client
	logger *slog.Logger
}

func NewVehicleRepository(client *Client, logger *slog.Logger) VehicleRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &vehicleRepository{
		client: client,
		logger: logger,
	}
}

var vehicleColumns = []string{"id", "plate", "brand", "model", "year", "type", "created_at", "updated_at"}

type vehicleRow struct {
	ID        uuid.UUID `sql:"id"`
	Plate     string    `sql:"plate"`
	Brand     string    `sql:"brand"`
	Model     string    `sql:"model"`
	Year      int       `sql:"year"`
	Type      string    `sql:"type"`
	CreatedAt time.Time `sql:"created_at"`
	UpdatedAt time.Time `sql:"updated_at"`
}

func (r vehicleRow) toEntity() *entity.Vehicle {
	return &entity.Vehicle{
		ID:        r.ID,
		Plate:     r.Plate,
		Brand:     r.Brand,
		Model:     r.Model,
		Year:      r.Year,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *vehicleRepository) ListVehicles(ctx context.Context) ([]*entity.Vehicle, error) {
	b := r.client.sql()
	q := b.Select(vehicleColumns...).From(b.Table(tableVehicles)).OrderBy(entsql.Asc("plate"))
	var rows []vehicleRow
	if err := r.client.query(ctx, q, &rows); err != nil {
		r.logger.Error("failed to list vehicles", "error", err)
		return nil, storeError(err, "list vehicles")
	}
	result := make([]*entity.Vehicle, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

// FindByPlate matches plates ignoring case and surrounding space.
func (r *vehicleRepository) FindByPlate(ctx context.Context, plate string) (*entity.Vehicle, error) {
	plate = NormalizePlate(plate)
	b := r.client.sql()
	q := b.Select(vehicleColumns...).From(b.Table(tableVehicles)).Where(entsql.EQ("plate", plate)).Limit(1)
	var rows []vehicleRow
	if err := r.client.query(ctx, q, &rows); err != nil {
		r.logger.Error("failed to find vehicle", "plate", plate, "error", err)
		return nil, storeError(err, "find vehicle")
	}
	if len(rows) == 0 {
		return nil, common.NewAppError("VEHICLE_NOT_FOUND", plate, common.ErrNotFound)
	}
	return rows[0].toEntity(), nil
}

func (r *vehicleRepository) CreateVehicle(ctx context.Context, vehicle *entity.Vehicle) (*entity.Vehicle, error) {
	created := *vehicle
	created.Plate = NormalizePlate(vehicle.Plate)
	if created.Type == "" {
		created.Type = string(constants.VehiclePrivate)
	}
	v := common.NewValidator().
		Field("plate", created.Plate, common.Required, common.MaxLength(20)).
		Field("type", created.Type, common.OneOf(constants.VehicleTypes...))
	if v.HasErrors() {
		return nil, v.Error()
	}

	now := time.Now().UTC()
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	created.CreatedAt, created.UpdatedAt = now, now

	q := r.client.sql().Insert(tableVehicles).
		Columns(vehicleColumns...).
		Values(created.ID, created.Plate, created.Brand, created.Model, created.Year, created.Type, now, now)
	if _, err := r.client.exec(ctx, q); err != nil {
		r.logger.Error("failed to create vehicle", "plate", created.Plate, "error", err)
		return nil, storeError(err, "create vehicle "+created.Plate)
	}
	r.logger.Debug("vehicle created", "vehicle_id", created.ID, "plate", created.Plate)
	return &created, nil
}

func (r *vehicleRepository) CountVehicles(ctx context.Context) (int, error) {
	b := r.client.sql()
	n, err := r.client.count(ctx, b.Select().Count().From(b.Table(tableVehicles)))
	if err != nil {
		return 0, storeError(err, "count vehicles")
	}
	return n, nil
}

// NormalizePlate upper-cases a plate and collapses its inner spacing.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), " "))
}
