package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	minNameLen = 2
	maxNameLen = 50
	minYear    = 1900
	maxMileage = 9_999_999
	vinLen     = 17
)

type (
	// A Vehicle is a registered vehicle record. ID and timestamps are
	// assigned by the persistence layer, never by this process.
	Vehicle struct {
		ID        string
		UserID    string
		Make      string
		Model     string
		Year      int
		Mileage   int
		VIN       string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// A VehicleDraft carries the client-editable fields of a vehicle,
	// used for insert and update requests.
	VehicleDraft struct {
		Make    string
		Model   string
		Year    int
		Mileage int
		VIN     string
	}
)

// Age returns full years elapsed since the vehicle model year.
func (v Vehicle) Age(now time.Time) int {
	age := now.Year() - v.Year
	if age < 0 {
		return 0
	}
	return age
}

// Validate checks the draft against the vehicle constraints.
// The returned error wraps [ErrValidation].
func (d VehicleDraft) Validate(now time.Time) error {
	var errs []error

	if l := len(d.Make); l < minNameLen || l > maxNameLen {
		errs = append(errs, fmt.Errorf(
			"make: length must be %d-%d chars", minNameLen, maxNameLen,
		))
	}

	if l := len(d.Model); l < minNameLen || l > maxNameLen {
		errs = append(errs, fmt.Errorf(
			"model: length must be %d-%d chars", minNameLen, maxNameLen,
		))
	}

	if maxYear := now.Year() + 1; d.Year < minYear || d.Year > maxYear {
		errs = append(errs, fmt.Errorf(
			"year: must be between %d and %d", minYear, maxYear,
		))
	}

	if d.Mileage < 0 || d.Mileage > maxMileage {
		errs = append(errs, fmt.Errorf(
			"mileage: must be between 0 and %d", maxMileage,
		))
	}

	if d.VIN != "" && len(d.VIN) != vinLen {
		errs = append(errs, fmt.Errorf(
			"vin: must be exactly %d chars when present", vinLen,
		))
	}

	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return nil
}
