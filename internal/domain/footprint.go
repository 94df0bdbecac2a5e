package domain

import (
	"context"
	"math"
	"time"
)

// Activity is one day's worth of raw activity quantities.
type Activity struct {
	CarKm          float64
	BusKm          float64
	ElectricityKWh float64
	WasteKg        float64
	VegMeals       float64
	NonVegMeals    float64
	VegMealChoice  string
}

// Breakdown is the per-category decomposition of a footprint total. The
// category set is closed, so it is a fixed-shape struct rather than a map.
// JSON names keep the labels users see.
type Breakdown struct {
	Car                float64 `json:"Car"`
	Bus                float64 `json:"Bus"`
	Electricity        float64 `json:"Electricity"`
	VegetarianMeals    float64 `json:"Vegetarian Meals"`
	NonVegetarianMeals float64 `json:"Non-Vegetarian Meals"`
	Waste              float64 `json:"Waste"`
}

// Sum returns the unrounded sum of all categories.
func (b Breakdown) Sum() float64 {
	return b.Car + b.Bus + b.Electricity + b.VegetarianMeals + b.NonVegetarianMeals + b.Waste
}

// Compute derives the footprint for one activity submission. The total is
// rounded to 2 decimals; the breakdown keeps the unrounded per-category
// values. Pure function of the activity and the factor table.
func (f FactorTable) Compute(a Activity) (float64, Breakdown) {
	b := Breakdown{
		Car:                a.CarKm * f.CarPerKm,
		Bus:                a.BusKm * f.BusPerKm,
		Electricity:        a.ElectricityKWh * f.ElectricityPerKWh,
		VegetarianMeals:    a.VegMeals * f.VegMealFactor(a.VegMealChoice),
		NonVegetarianMeals: a.NonVegMeals * f.NonVegPerMeal,
		Waste:              a.WasteKg * f.WastePerKg,
	}
	return Round2(b.Sum()), b
}

// Round2 rounds to 2 decimal places, matching the precision of stored totals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EmissionRecord is one computed submission. Records are append-only: never
// mutated or deleted, and a user may have several per day.
type EmissionRecord struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Day       string    `json:"day"`
	Total     float64   `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
	CreatedAt time.Time `json:"createdAt"`
}

// DayTotal is one row of a per-day trend: the day and the sum of all record
// totals for that day.
type DayTotal struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
}

// RecordRepository is the port for emission record persistence.
type RecordRepository interface {
	AppendRecord(ctx context.Context, username, day string, total float64, breakdown Breakdown) (int64, error)
	ListRecentRecords(ctx context.Context, username string, limit int) ([]EmissionRecord, error)
	DailyTotals(ctx context.Context, username string) ([]DayTotal, error)
	GlobalAverage(ctx context.Context) (float64, error)
}
