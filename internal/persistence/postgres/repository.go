// Package postgres provides a transactional store for deployments where
// multiple writers share the habit tables, replacing the flat-file
// rewrite strategy.
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/futureme/internal/domain"
)

// Repository implements the domain repository interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	mode LeaderboardMode
}

// LeaderboardMode mirrors the flat-file table modes.
type LeaderboardMode string

const (
	LeaderboardUpsert LeaderboardMode = "upsert"
	LeaderboardAppend LeaderboardMode = "append"
)

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool, mode LeaderboardMode) *Repository {
	if mode == "" {
		mode = LeaderboardUpsert
	}
	return &Repository{pool: pool, mode: mode}
}

const schema = `
CREATE TABLE IF NOT EXISTS habit_history (
    user_name        TEXT NOT NULL,
    entry_date       TEXT NOT NULL,
    sleep_hours      DOUBLE PRECISION NOT NULL,
    food_quality     INT NOT NULL,
    screen_hours     DOUBLE PRECISION NOT NULL,
    stress_level     INT NOT NULL,
    activity_minutes INT NOT NULL,
    caffeine_cups    INT NOT NULL,
    water_glasses    INT NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_name, entry_date)
);

CREATE TABLE IF NOT EXISTS leaderboard_scores (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    score       DOUBLE PRECISION NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS leaderboard_scores_name_idx ON leaderboard_scores (name);

CREATE TABLE IF NOT EXISTS habit_goals (
    id               INT PRIMARY KEY CHECK (id = 1),
    sleep_hours      DOUBLE PRECISION NOT NULL,
    water_glasses    INT NOT NULL,
    activity_minutes INT NOT NULL
);
`

// EnsureSchema creates the backing tables when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// ListByUser implements domain.HistoryRepository.
func (r *Repository) ListByUser(ctx context.Context, user string) ([]domain.HabitHistoryEntry, error) {
	const query = `SELECT entry_date, sleep_hours, food_quality, screen_hours, stress_level, activity_minutes, caffeine_cups, water_glasses
        FROM habit_history WHERE user_name=$1 ORDER BY entry_date`

	rows, err := r.pool.Query(ctx, query, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.HabitHistoryEntry, 0)
	for rows.Next() {
		var e domain.HabitHistoryEntry
		h := &e.Habits
		if err := rows.Scan(&e.Date, &h.SleepHours, &h.FoodQuality, &h.ScreenTimeHours, &h.StressLevel, &h.ActivityMinutes, &h.CaffeineCups, &h.WaterGlasses); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Upsert implements domain.HistoryRepository.
func (r *Repository) Upsert(ctx context.Context, user string, entry domain.HabitHistoryEntry) error {
	const stmt = `INSERT INTO habit_history (user_name, entry_date, sleep_hours, food_quality, screen_hours, stress_level, activity_minutes, caffeine_cups, water_glasses, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
        ON CONFLICT (user_name, entry_date) DO UPDATE SET
            sleep_hours=EXCLUDED.sleep_hours,
            food_quality=EXCLUDED.food_quality,
            screen_hours=EXCLUDED.screen_hours,
            stress_level=EXCLUDED.stress_level,
            activity_minutes=EXCLUDED.activity_minutes,
            caffeine_cups=EXCLUDED.caffeine_cups,
            water_glasses=EXCLUDED.water_glasses,
            updated_at=now()`

	h := entry.Habits
	_, err := r.pool.Exec(ctx, stmt, user, entry.Date,
		h.SleepHours, h.FoodQuality, h.ScreenTimeHours, h.StressLevel,
		h.ActivityMinutes, h.CaffeineCups, h.WaterGlasses)
	return err
}

// List implements domain.LeaderboardRepository, in insertion order.
func (r *Repository) List(ctx context.Context) ([]domain.LeaderboardRow, error) {
	const query = `SELECT name, score FROM leaderboard_scores ORDER BY recorded_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.LeaderboardRow, 0)
	for rows.Next() {
		var row domain.LeaderboardRow
		if err := rows.Scan(&row.Name, &row.Score); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Record implements domain.LeaderboardRepository. Upsert mode removes the
// previous rows for the name in the same transaction, matching the
// flat-file append-and-filter semantics.
func (r *Repository) Record(ctx context.Context, row domain.LeaderboardRow) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if r.mode == LeaderboardUpsert {
		if _, err = tx.Exec(ctx, `DELETE FROM leaderboard_scores WHERE name=$1`, row.Name); err != nil {
			return err
		}
	}
	if _, err = tx.Exec(ctx, `INSERT INTO leaderboard_scores (id, name, score) VALUES ($1,$2,$3)`, uuid.NewString(), row.Name, row.Score); err != nil {
		return err
	}
	err = tx.Commit(ctx)
	return err
}

// Get implements domain.GoalsRepository.
func (r *Repository) Get(ctx context.Context) (*domain.Goals, error) {
	const query = `SELECT sleep_hours, water_glasses, activity_minutes FROM habit_goals WHERE id=1`

	var goals domain.Goals
	err := r.pool.QueryRow(ctx, query).Scan(&goals.SleepHours, &goals.WaterGlasses, &goals.ActivityMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &goals, nil
}

// Replace implements domain.GoalsRepository.
func (r *Repository) Replace(ctx context.Context, goals domain.Goals) error {
	const stmt = `INSERT INTO habit_goals (id, sleep_hours, water_glasses, activity_minutes)
        VALUES (1,$1,$2,$3)
        ON CONFLICT (id) DO UPDATE SET
            sleep_hours=EXCLUDED.sleep_hours,
            water_glasses=EXCLUDED.water_glasses,
            activity_minutes=EXCLUDED.activity_minutes`

	_, err := r.pool.Exec(ctx, stmt, goals.SleepHours, goals.WaterGlasses, goals.ActivityMinutes)
	return err
}
