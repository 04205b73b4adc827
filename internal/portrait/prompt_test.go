package portrait

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/futureme/internal/domain"
)

func TestBuildPromptRestedProfile(t *testing.T) {
	h := domain.HabitVector{
		SleepHours:      8,
		FoodQuality:     5,
		ScreenTimeHours: 2,
		StressLevel:     1,
		ActivityMinutes: 60,
		CaffeineCups:    0,
		WaterGlasses:    8,
		Age:             30,
		Gender:          domain.GenderMale,
	}

	want := "Portrait of a 30-year-old male, " +
		"well-rested and refreshed, " +
		"healthy glowing skin, " +
		"calm and relaxed appearance, " +
		"fit and active look, defined face, " +
		"realistic digital portrait, professional lighting."
	require.Equal(t, want, BuildPrompt(h))
}

func TestBuildPromptStressedProfile(t *testing.T) {
	h := domain.HabitVector{
		SleepHours:      5,
		FoodQuality:     2,
		ScreenTimeHours: 9,
		StressLevel:     4,
		ActivityMinutes: 20,
		CaffeineCups:    4,
		WaterGlasses:    3,
		Age:             45,
		Gender:          domain.GenderFemale,
	}

	want := "Portrait of a 45-year-old female, " +
		"tired eyes, dark circles, " +
		"dull and unhealthy skin, " +
		"stressed facial expression, " +
		"slightly strained eyes, " +
		"low-energy posture, " +
		"dry skin, " +
		"restless or anxious expression, " +
		"realistic digital portrait, professional lighting."
	require.Equal(t, want, BuildPrompt(h))
}

func TestBuildPromptModerateStressOmitsMoodClause(t *testing.T) {
	h := domain.HabitVector{
		SleepHours:  7,
		FoodQuality: 4,
		StressLevel: 3,
		Age:         30,
		Gender:      domain.GenderMale,
	}

	prompt := BuildPrompt(h)
	require.False(t, strings.Contains(prompt, "stressed facial expression"))
	require.False(t, strings.Contains(prompt, "calm and relaxed appearance"))
}
