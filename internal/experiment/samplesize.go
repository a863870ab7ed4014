package experiment

import "math"

// Calculator choices offered by the sample size step.
var (
	MDEChoices   = []float64{0.1, 0.2, 0.5}
	PowerChoices = []float64{0.8, 0.9, 0.7}
	AlphaChoices = []float64{0.05, 0.01, 0.1}
)

// DefaultPowerCalculation is the calculator's initial selection.
func DefaultPowerCalculation() PowerCalculation {
	return PowerCalculation{MDE: 0.2, Power: 0.8, Alpha: 0.05}
}

// CalculateSampleSize derives a total sample size from the calculator
// parameters. This is a lookup heuristic, not a power analysis.
//
// The multiplications run on float64 variables so rounding matches IEEE
// double arithmetic step by step; ceil is taken before the final ×4.
func CalculateSampleSize(pc PowerCalculation, t ExperimentType) int {
	base := 16.0
	switch pc.MDE {
	case 0.1:
		base = 100
	case 0.2:
		base = 25
	case 0.5:
		base = 4
	}

	switch pc.Power {
	case 0.9:
		base *= 1.3
	case 0.7:
		base *= 0.8
	}

	switch pc.Alpha {
	case 0.01:
		base *= 1.75
	case 0.1:
		base *= 0.7
	}

	switch t {
	case TypeMAB:
		base *= 1.2
	case TypeCMAB:
		base *= 1.5
	}

	return int(math.Ceil(base)) * 4
}

// EffectLabel names the expected effect size for an MDE choice.
func EffectLabel(mde float64) string {
	switch mde {
	case 0.1:
		return "small"
	case 0.5:
		return "large"
	default:
		return "medium"
	}
}

// PrecisionLabel describes what an MDE choice can detect.
func PrecisionLabel(mde float64) string {
	switch mde {
	case 0.1:
		return "High precision (can detect small effects)"
	case 0.2:
		return "Medium precision (moderate effects)"
	default:
		return "Low precision (only large effects detectable)"
	}
}

// SampleSizeNote is the experiment-type specific guidance shown next to the
// manual sample size input.
func SampleSizeNote(t ExperimentType) string {
	switch t {
	case TypeMAB:
		return "Ensure enough data for both exploration and exploitation phases"
	case TypeCMAB:
		return "Need sufficient data for each context combination"
	default:
		return "Consider your prior certainty and desired posterior precision"
	}
}
