package vehicleapi

import (
	"time"

	"github.com/elianismedina/partfinder/internal/core/domain"
)

type (
	vehicleRecord struct {
		ID        string    `json:"id"`
		UserID    string    `json:"user_id,omitempty"`
		Make      string    `json:"make"`
		Model     string    `json:"model"`
		Year      int       `json:"year"`
		Mileage   int       `json:"mileage"`
		VIN       string    `json:"vin,omitempty"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	vehicleDraft struct {
		Make    string `json:"make"`
		Model   string `json:"model"`
		Year    int    `json:"year"`
		Mileage int    `json:"mileage"`
		VIN     string `json:"vin,omitempty"`
	}
)

func recordToDomain(r vehicleRecord) domain.Vehicle {
	return domain.Vehicle{
		ID:        r.ID,
		UserID:    r.UserID,
		Make:      r.Make,
		Model:     r.Model,
		Year:      r.Year,
		Mileage:   r.Mileage,
		VIN:       r.VIN,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func draftToWire(d domain.VehicleDraft) vehicleDraft {
	return vehicleDraft{
		Make:    d.Make,
		Model:   d.Model,
		Year:    d.Year,
		Mileage: d.Mileage,
		VIN:     d.VIN,
	}
}
