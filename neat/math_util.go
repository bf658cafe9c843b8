package neat

import (
	"math"
	"math/rand"
	"sort"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// uniform draws from [-halfWidth, halfWidth).
func uniform(rng *rand.Rand, halfWidth float64) float64 {
	return (rng.Float64()*2 - 1) * halfWidth
}

// --- Statistical Functions ---

// Mean calculates the average of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return Sum(values) / float64(len(values))
}

// Stdev calculates the sample standard deviation of a slice of float64 values.
func Stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

// Sum calculates the sum of a slice of float64 values.
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// MaxFloat calculates the maximum value in a slice of float64 values.
// Returns negative infinity if the slice is empty.
func MaxFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// MinFloat returns the minimum of values, or positive infinity for an empty slice.
func MinFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	minVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
	}
	return minVal
}

// Median returns the median of values, or NaN for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// StatFunctions maps the names accepted by species_fitness_func to their functions.
var StatFunctions = map[string]func([]float64) float64{
	"mean":   Mean,
	"sum":    Sum,
	"max":    MaxFloat,
	"min":    MinFloat,
	"median": Median,
}
