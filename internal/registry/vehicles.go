package registry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
)

func vehicleListSchema() map[string]any {
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"plate", "brand", "model", "year"},
			"properties": map[string]any{
				"plate": map[string]any{"type": "string", "minLength": 1, "maxLength": 20},
				"brand": map[string]any{"type": "string", "minLength": 1},
				"model": map[string]any{"type": "string", "minLength": 1},
				"year":  map[string]any{"type": "integer", "minimum": 1950, "maximum": 2100},
				"type": map[string]any{
					"type": "string",
					"enum": append(append([]string{}, constants.VehicleTypes...), ""),
				},
			},
		},
	}
}

type vehicleSeed struct {
	Plate string `json:"plate"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Type  string `json:"type"`
}

// ParseVehiclesJSON validates and decodes a vehicle seed file.
func ParseVehiclesJSON(data []byte) ([]*entity.Vehicle, error) {
	if err := ValidateJSONAgainstSchema(vehicleListSchema(), data); err != nil {
		return nil, common.NewAppError("INVALID_SEED", "vehicle seed", errors.Join(common.ErrValidation, err))
	}
	var seeds []vehicleSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, common.NewAppError("INVALID_SEED", "vehicle seed", errors.Join(common.ErrInvalidInput, err))
	}
	vehicles := make([]*entity.Vehicle, 0, len(seeds))
	for _, s := range seeds {
		vehicles = append(vehicles, &entity.Vehicle{
			Plate: strings.TrimSpace(s.Plate),
			Brand: strings.TrimSpace(s.Brand),
			Model: strings.TrimSpace(s.Model),
			Year:  s.Year,
			Type:  s.Type,
		})
	}
	return vehicles, nil
}

type VehicleCreator interface {
	CreateVehicle(ctx context.Context, vehicle *entity.Vehicle) (*entity.Vehicle, error)
}

// SeedVehicles inserts vehicles, skipping plates that are already registered.
func SeedVehicles(ctx context.Context, store VehicleCreator, vehicles []*entity.Vehicle, logger *slog.Logger) SeedResult {
	if logger == nil {
		logger = slog.Default()
	}
	res := SeedResult{Total: len(vehicles)}
	for _, v := range vehicles {
		_, err := store.CreateVehicle(ctx, v)
		switch {
		case errors.Is(err, common.ErrDuplicate):
			res.Existing++
		case err != nil:
			res.Failed++
			logger.Warn("seed.vehicle.failed", "plate", v.Plate, "error", err)
		default:
			res.Created++
		}
	}
	logger.Info("seed.vehicles.done", "created", res.Created, "existing", res.Existing, "failed", res.Failed, "total", res.Total)
	return res
}

// LoadVehiclesFile reads a JSON vehicle seed file.
func LoadVehiclesFile(path string) ([]*entity.Vehicle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError("SOURCE_READ", path, err)
	}
	return ParseVehiclesJSON(data)
}
