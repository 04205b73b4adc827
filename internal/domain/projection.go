package domain

import "fmt"

const (
	baselineWeightKg = 70.0
	baselineEnergy   = 70.0
	baselineFocus    = 70.0

	minWeightKg = 45.0
	maxWeightKg = 120.0
)

// Formula projects a habit vector across a time horizon. Implementations
// are pure and deterministic; years is any non-negative integer, with
// years=0 returning the baseline metrics unchanged.
type Formula interface {
	Name() string
	Project(h HabitVector, years int) Metrics
}

// Formula family names accepted by NewFormula.
const (
	FormulaDirectDelta = "direct-delta"
	FormulaBMR         = "bmr"
)

// NewFormula resolves a formula family by name.
func NewFormula(name string) (Formula, error) {
	switch name {
	case FormulaDirectDelta, "":
		return DirectDeltaFormula{}, nil
	case FormulaBMR:
		return BMRFormula{}, nil
	default:
		return nil, fmt.Errorf("unknown formula family: %s", name)
	}
}

// DirectDeltaFormula is the canonical formula family. It derives annual
// drift rates straight from the habit vector and needs none of the
// optional profile fields.
type DirectDeltaFormula struct{}

// Name implements Formula.
func (DirectDeltaFormula) Name() string { return FormulaDirectDelta }

// Project implements Formula.
func (DirectDeltaFormula) Project(h HabitVector, years int) Metrics {
	y := float64(years)

	weightDrift := -0.4*(float64(h.ActivityMinutes)/30) +
		0.7*(h.ScreenTimeHours/5) +
		1.0*float64(5-h.FoodQuality)

	energyDrift := 1.2*(h.SleepHours-7) -
		1.1*float64(h.StressLevel-3) -
		0.4*float64(h.CaffeineCups)

	focusDrift := -0.8*(h.ScreenTimeHours-6) +
		0.5*(h.SleepHours-6) -
		0.7*float64(h.StressLevel-3)

	return Metrics{
		HorizonYears:      years,
		PredictedWeightKg: clamp(baselineWeightKg+weightDrift*y, minWeightKg, maxWeightKg),
		PredictedEnergy:   clamp(baselineEnergy+energyDrift*y, 0, 100),
		PredictedFocus:    clamp(baselineFocus+focusDrift*y, 0, 100),
	}
}

// BMRFormula is the alternative formula family. Weight drift follows an
// annualised calorie surplus against the 7700 kcal/kg conversion; the
// Mifflin-St Jeor basal estimate uses the optional age, height, and
// gender profile fields.
type BMRFormula struct{}

// Name implements Formula.
func (BMRFormula) Name() string { return FormulaBMR }

// Project implements Formula.
func (BMRFormula) Project(h HabitVector, years int) Metrics {
	y := float64(years)

	genderTerm := -161.0
	if h.Gender == GenderMale {
		genderTerm = 5
	}
	bmr := 10*baselineWeightKg + 6.25*h.HeightCm - 5*float64(h.Age) + genderTerm
	// Daily energy-expenditure estimate. The weight drift below tracks the
	// calorie surplus directly, so the estimate stays informational.
	_ = bmr * (1.2 + float64(h.ActivityMinutes)/120)

	calorieSurplus := float64(5-h.FoodQuality)*100 +
		(h.ScreenTimeHours-6)*50 -
		float64(h.ActivityMinutes-30)*5
	weightChangeKg := calorieSurplus * 365 * y / 7700

	hydrationPenalty := 0.0
	if h.WaterGlasses < 6 {
		hydrationPenalty = 2
	}
	energyDrift := 1.5*(h.SleepHours-7) -
		1.5*float64(h.StressLevel-3) -
		0.5*hydrationPenalty

	focusDrift := -1.0*(h.ScreenTimeHours-6) +
		0.8*(h.SleepHours-7) -
		1.0*float64(h.StressLevel-3)

	return Metrics{
		HorizonYears:      years,
		PredictedWeightKg: clamp(baselineWeightKg+weightChangeKg, minWeightKg, maxWeightKg),
		PredictedEnergy:   clamp(baselineEnergy+energyDrift*y, 0, 100),
		PredictedFocus:    clamp(baselineFocus+focusDrift*y, 0, 100),
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
