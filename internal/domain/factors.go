package domain

// FactorTable holds the emission conversion factors. It is built once at
// startup and treated as immutable; sharing it across requests is safe.
type FactorTable struct {
	CarPerKm          float64
	BusPerKm          float64
	ElectricityPerKWh float64
	WastePerKg        float64
	NonVegPerMeal     float64

	// VegMealFactors maps a meal choice to its per-meal factor.
	VegMealFactors map[string]float64
	// DefaultVegMealFactor applies when the choice is unrecognized.
	DefaultVegMealFactor float64
}

// DefaultVegMealChoice is assumed when the form omits the meal selector.
const DefaultVegMealChoice = "salad"

// DefaultFactors returns the standard emission factor table.
func DefaultFactors() FactorTable {
	return FactorTable{
		CarPerKm:          0.171,
		BusPerKm:          0.104,
		ElectricityPerKWh: 0.82,
		WastePerKg:        1.8,
		NonVegPerMeal:     3.0,
		VegMealFactors: map[string]float64{
			"salad": 0.8,
			"pasta": 1.2,
			"tofu":  1.5,
		},
		DefaultVegMealFactor: 1.0,
	}
}

// VegMealFactor returns the factor for the given meal choice, falling back
// to the default for unrecognized choices.
func (f FactorTable) VegMealFactor(choice string) float64 {
	if v, ok := f.VegMealFactors[choice]; ok {
		return v
	}
	return f.DefaultVegMealFactor
}
