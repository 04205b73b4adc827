package domain

// Gender selects the constant term in the basal-metabolic formula and
// shapes the portrait prompt.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// HabitVector is a validated snapshot of one user's self-reported daily
// lifestyle habits. Callers check every field against its domain before
// handing the vector to the projection engine; the engine treats a valid
// vector as a precondition and does not re-check.
type HabitVector struct {
	SleepHours      float64
	FoodQuality     int // 1 (poor) to 5 (excellent)
	ScreenTimeHours float64
	StressLevel     int // 1 (low) to 5 (high)
	ActivityMinutes int
	CaffeineCups    int
	WaterGlasses    int

	// Optional profile fields, consumed only by the basal-metabolic
	// formula family and the portrait prompt builder. Zero values mean
	// the caller did not supply them.
	Age      int
	HeightCm float64
	Gender   Gender
}

// Metrics is one projection outcome for a single horizon. Values carry
// full float precision; rounding happens at the presentation boundary.
type Metrics struct {
	HorizonYears      int
	PredictedWeightKg float64
	PredictedEnergy   float64
	PredictedFocus    float64
}

// HabitHistoryEntry ties a habit vector to the calendar day it was
// submitted. One entry per day; resubmitting replaces the day's entry.
type HabitHistoryEntry struct {
	Date   string // YYYY-MM-DD
	Habits HabitVector
}

// LeaderboardRow ranks a display name by its five-year projection score.
type LeaderboardRow struct {
	Name  string
	Score float64
}

// Goals holds the singleton daily-target row.
type Goals struct {
	SleepHours      float64
	WaterGlasses    int
	ActivityMinutes int
}
