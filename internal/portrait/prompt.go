// Package portrait builds "future self" portrait prompts from habit
// vectors and generates images through an optional injected backend.
package portrait

import (
	"fmt"
	"strings"

	"example.com/futureme/internal/domain"
)

// BuildPrompt turns a habit vector into an image-generation prompt. It
// needs the optional age and gender fields; callers should skip the
// portrait flow when those are absent.
func BuildPrompt(h domain.HabitVector) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portrait of a %d-year-old %s, ", h.Age, h.Gender)

	if h.SleepHours < 6 {
		b.WriteString("tired eyes, dark circles, ")
	} else {
		b.WriteString("well-rested and refreshed, ")
	}

	if h.FoodQuality >= 4 {
		b.WriteString("healthy glowing skin, ")
	} else {
		b.WriteString("dull and unhealthy skin, ")
	}

	if h.StressLevel >= 4 {
		b.WriteString("stressed facial expression, ")
	} else if h.StressLevel <= 2 {
		b.WriteString("calm and relaxed appearance, ")
	}

	if h.ScreenTimeHours > 6 {
		b.WriteString("slightly strained eyes, ")
	}

	if h.ActivityMinutes >= 45 {
		b.WriteString("fit and active look, defined face, ")
	} else {
		b.WriteString("low-energy posture, ")
	}

	if h.WaterGlasses < 6 {
		b.WriteString("dry skin, ")
	}

	if h.CaffeineCups > 3 {
		b.WriteString("restless or anxious expression, ")
	}

	b.WriteString("realistic digital portrait, professional lighting.")
	return b.String()
}
