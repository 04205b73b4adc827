package domain

// Suggestion pairs an actionable recommendation with an illustrative
// image reference the UI may render alongside it.
type Suggestion struct {
	Message  string
	ImageRef string
}

type adviceRule struct {
	fires      func(HabitVector) bool
	suggestion Suggestion
}

// Rules are evaluated top to bottom; each gates on exactly one field and
// emits at most one suggestion. Multiple rules may fire for one vector.
var adviceRules = []adviceRule{
	{
		fires: func(h HabitVector) bool { return h.SleepHours < 6 },
		suggestion: Suggestion{
			Message:  "Aim for at least 7 hours of sleep to restore energy and focus.",
			ImageRef: "tips/sleep.png",
		},
	},
	{
		fires: func(h HabitVector) bool { return h.FoodQuality <= 2 },
		suggestion: Suggestion{
			Message:  "Upgrade your meals: more whole foods, fewer processed snacks.",
			ImageRef: "tips/food.png",
		},
	},
	{
		fires: func(h HabitVector) bool { return h.ScreenTimeHours > 6 },
		suggestion: Suggestion{
			Message:  "Cut back on screen time, especially in the hour before bed.",
			ImageRef: "tips/screen.png",
		},
	},
	{
		fires: func(h HabitVector) bool { return h.StressLevel >= 4 },
		suggestion: Suggestion{
			Message:  "Try short breathing or mindfulness breaks to bring stress down.",
			ImageRef: "tips/stress.png",
		},
	},
	{
		fires: func(h HabitVector) bool { return h.ActivityMinutes < 30 },
		suggestion: Suggestion{
			Message:  "Add movement: 30 minutes of daily activity makes a measurable difference.",
			ImageRef: "tips/activity.png",
		},
	},
	{
		fires: func(h HabitVector) bool { return h.CaffeineCups > 2 },
		suggestion: Suggestion{
			Message:  "Keep caffeine to a couple of cups and avoid it late in the day.",
			ImageRef: "tips/caffeine.png",
		},
	},
	{
		fires: func(h HabitVector) bool { return h.WaterGlasses < 6 },
		suggestion: Suggestion{
			Message:  "Drink more water; aim for at least 6 glasses a day.",
			ImageRef: "tips/water.png",
		},
	},
}

// affirmation is returned when no rule fires.
var affirmation = Suggestion{
	Message:  "Great habits! Keep doing what you're doing.",
	ImageRef: "tips/great.png",
}

// Advise maps a habit vector to an ordered list of recommendations.
// Pure and deterministic; order follows the fixed rule priority.
func Advise(h HabitVector) []Suggestion {
	out := make([]Suggestion, 0, len(adviceRules))
	for _, rule := range adviceRules {
		if rule.fires(h) {
			out = append(out, rule.suggestion)
		}
	}
	if len(out) == 0 {
		out = append(out, affirmation)
	}
	return out
}
