//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/futureme/internal/domain"
)

func startDatabase(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("futureme"),
		postgrescontainer.WithUsername("futureme"),
		postgrescontainer.WithPassword("futureme"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

func TestRepositoryHistoryUpsertByUserAndDate(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t, ctx)

	repo := NewRepository(pool, LeaderboardUpsert)
	require.NoError(t, repo.EnsureSchema(ctx))

	entry := domain.HabitHistoryEntry{
		Date: "2026-03-14",
		Habits: domain.HabitVector{
			SleepHours:      7.5,
			FoodQuality:     4,
			ScreenTimeHours: 3,
			StressLevel:     2,
			ActivityMinutes: 45,
			CaffeineCups:    1,
			WaterGlasses:    6,
		},
	}
	require.NoError(t, repo.Upsert(ctx, "Robin", entry))

	entry.Habits.SleepHours = 4
	require.NoError(t, repo.Upsert(ctx, "Robin", entry))
	require.NoError(t, repo.Upsert(ctx, "Sam", entry))

	entries, err := repo.ListByUser(ctx, "Robin")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 4.0, entries[0].Habits.SleepHours)
}

func TestRepositoryLeaderboardModes(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t, ctx)

	upsert := NewRepository(pool, LeaderboardUpsert)
	require.NoError(t, upsert.EnsureSchema(ctx))

	require.NoError(t, upsert.Record(ctx, domain.LeaderboardRow{Name: "Robin", Score: 10}))
	require.NoError(t, upsert.Record(ctx, domain.LeaderboardRow{Name: "Robin", Score: 30}))

	rows, err := upsert.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.LeaderboardRow{{Name: "Robin", Score: 30}}, rows)

	appendMode := NewRepository(pool, LeaderboardAppend)
	require.NoError(t, appendMode.Record(ctx, domain.LeaderboardRow{Name: "Robin", Score: 50}))

	rows, err = appendMode.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestRepositoryGoalsSingleton(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t, ctx)

	repo := NewRepository(pool, LeaderboardUpsert)
	require.NoError(t, repo.EnsureSchema(ctx))

	goals, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, goals)

	require.NoError(t, repo.Replace(ctx, domain.Goals{SleepHours: 7, WaterGlasses: 6, ActivityMinutes: 30}))
	require.NoError(t, repo.Replace(ctx, domain.Goals{SleepHours: 8, WaterGlasses: 8, ActivityMinutes: 45}))

	goals, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Goals{SleepHours: 8, WaterGlasses: 8, ActivityMinutes: 45}, *goals)
}
