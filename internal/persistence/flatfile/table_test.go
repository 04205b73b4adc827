package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/futureme/internal/domain"
)

func sampleEntry(date string) domain.HabitHistoryEntry {
	return domain.HabitHistoryEntry{
		Date: date,
		Habits: domain.HabitVector{
			SleepHours:      7.5,
			FoodQuality:     4,
			ScreenTimeHours: 3.25,
			StressLevel:     2,
			ActivityMinutes: 45,
			CaffeineCups:    1,
			WaterGlasses:    6,
		},
	}
}

func TestLoadMissingFileReturnsEmptyTable(t *testing.T) {
	store := NewLeaderboardStore(t.TempDir(), ModeUpsert)

	rows, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore(t.TempDir(), ModeUpsert)

	row := domain.LeaderboardRow{Name: "Robin", Score: 61.5}
	require.NoError(t, store.Record(ctx, row))
	require.NoError(t, store.Record(ctx, row))

	rows, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.LeaderboardRow{row}, rows)
}

func TestUpsertMovesReplacedRowToEnd(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore(t.TempDir(), ModeUpsert)

	require.NoError(t, store.Record(ctx, domain.LeaderboardRow{Name: "Robin", Score: 10}))
	require.NoError(t, store.Record(ctx, domain.LeaderboardRow{Name: "Sam", Score: 20}))
	require.NoError(t, store.Record(ctx, domain.LeaderboardRow{Name: "Robin", Score: 30}))

	rows, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.LeaderboardRow{
		{Name: "Sam", Score: 20},
		{Name: "Robin", Score: 30},
	}, rows)
}

func TestAppendModeKeepsDuplicateKeys(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore(t.TempDir(), ModeAppend)

	require.NoError(t, store.Record(ctx, domain.LeaderboardRow{Name: "Robin", Score: 10}))
	require.NoError(t, store.Record(ctx, domain.LeaderboardRow{Name: "Robin", Score: 30}))

	rows, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestHistoryRoundTripIsValueExact(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(t.TempDir())

	first := sampleEntry("2026-03-13")
	second := sampleEntry("2026-03-14")
	second.Habits.SleepHours = 6.1
	require.NoError(t, store.Upsert(ctx, "Robin", first))
	require.NoError(t, store.Upsert(ctx, "Robin", second))

	entries, err := store.ListByUser(ctx, "Robin")
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.HabitHistoryEntry{first, second}, entries)
}

func TestHistoryScopedPerUser(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewHistoryStore(dir)

	require.NoError(t, store.Upsert(ctx, "Robin Lee", sampleEntry("2026-03-14")))
	require.NoError(t, store.Upsert(ctx, "Sam", sampleEntry("2026-03-14")))

	entries, err := store.ListByUser(ctx, "Robin Lee")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = os.Stat(filepath.Join(dir, "habits_robin-lee.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "habits_sam.csv"))
	require.NoError(t, err)
}

func TestLoadCorruptFileReportsTableCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaderboard.csv"), []byte("Nome,Punteggio\nRobin,61.5\n"), 0o644))

	store := NewLeaderboardStore(dir, ModeUpsert)
	_, err := store.List(ctx)
	require.ErrorIs(t, err, domain.ErrTableCorrupt)

	// Writes must not clobber a table they cannot parse.
	err = store.Record(ctx, domain.LeaderboardRow{Name: "Sam", Score: 10})
	require.ErrorIs(t, err, domain.ErrTableCorrupt)
}

func TestLoadUnparsableCellReportsTableCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaderboard.csv"), []byte("Name,Score\nRobin,not-a-number\n"), 0o644))

	store := NewLeaderboardStore(dir, ModeUpsert)
	_, err := store.List(ctx)
	require.ErrorIs(t, err, domain.ErrTableCorrupt)
}

func TestGoalsReplaceKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	store := NewGoalsStore(t.TempDir())

	goals, err := store.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, goals)

	require.NoError(t, store.Replace(ctx, domain.Goals{SleepHours: 7, WaterGlasses: 6, ActivityMinutes: 30}))
	require.NoError(t, store.Replace(ctx, domain.Goals{SleepHours: 8, WaterGlasses: 8, ActivityMinutes: 45}))

	goals, err = store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Goals{SleepHours: 8, WaterGlasses: 8, ActivityMinutes: 45}, *goals)
}

func TestParseTableMode(t *testing.T) {
	mode, err := ParseTableMode("")
	require.NoError(t, err)
	require.Equal(t, ModeUpsert, mode)

	mode, err = ParseTableMode("append")
	require.NoError(t, err)
	require.Equal(t, ModeAppend, mode)

	_, err = ParseTableMode("ring-buffer")
	require.Error(t, err)
}
