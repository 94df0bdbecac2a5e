package app

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"carbontrack/internal/domain"
)

// ValidationError reports a malformed or out-of-range form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseActivity converts form-style values into an Activity. Missing numeric
// fields default to 0; malformed numerics and negative quantities fail with
// a *ValidationError. An absent meal selector defaults to
// domain.DefaultVegMealChoice.
func ParseActivity(form url.Values) (domain.Activity, error) {
	var a domain.Activity
	fields := []struct {
		name string
		dst  *float64
	}{
		{"car_km", &a.CarKm},
		{"bus_km", &a.BusKm},
		{"electricity_kwh", &a.ElectricityKWh},
		{"waste_kg", &a.WasteKg},
		{"veg_meals", &a.VegMeals},
		{"nonveg_meals", &a.NonVegMeals},
	}

	for _, f := range fields {
		raw := form.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Activity{}, &ValidationError{Field: f.name, Reason: "not a number"}
		}
		if v < 0 {
			return domain.Activity{}, &ValidationError{Field: f.name, Reason: "must not be negative"}
		}
		*f.dst = v
	}

	a.VegMealChoice = form.Get("veg_meal_choice")
	if a.VegMealChoice == "" {
		a.VegMealChoice = domain.DefaultVegMealChoice
	}
	return a, nil
}

// FootprintService computes footprint scores and appends them to the record
// store.
type FootprintService struct {
	factors domain.FactorTable
	records domain.RecordRepository
}

// NewFootprintService creates a FootprintService using the given factor
// table and record repository.
func NewFootprintService(factors domain.FactorTable, records domain.RecordRepository) *FootprintService {
	return &FootprintService{factors: factors, records: records}
}

// Track computes the footprint for one activity submission and persists it
// under today's local day for the given user.
func (s *FootprintService) Track(ctx context.Context, username string, a domain.Activity) (*domain.EmissionRecord, error) {
	total, breakdown := s.factors.Compute(a)
	day := time.Now().In(time.Local).Format("2006-01-02")

	id, err := s.records.AppendRecord(ctx, username, day, total, breakdown)
	if err != nil {
		return nil, err
	}
	return &domain.EmissionRecord{
		ID:        id,
		Username:  username,
		Day:       day,
		Total:     total,
		Breakdown: breakdown,
	}, nil
}
