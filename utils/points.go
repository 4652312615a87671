package utils

import "math"

// DevicePoints converts recoverable metal grams into credit points.
func DevicePoints(metalValueGrams float64) int {
	return int(math.Round(metalValueGrams * 10))
}

// DepreciationFactor discounts an estimate by 5% per year of age,
// floored at 30% of the base value.
func DepreciationFactor(ageYears float64) float64 {
	return math.Max(0.3, 1-ageYears*0.05)
}
