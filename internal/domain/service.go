// Package domain defines the business logic for the future-me service:
// habit projection, scoring, suggestions, and the submission pipeline.
package domain

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"example.com/futureme/internal/events"
	"example.com/futureme/internal/observability"
)

// ErrTableCorrupt indicates a stored table exists but cannot be parsed
// against its declared schema. Reads fall back to an empty table with a
// warning; writes never proceed past it.
var ErrTableCorrupt = errors.New("stored table cannot be parsed against its schema")

// HistoryRepository persists one habit entry per user per calendar day.
type HistoryRepository interface {
	ListByUser(ctx context.Context, user string) ([]HabitHistoryEntry, error)
	Upsert(ctx context.Context, user string, entry HabitHistoryEntry) error
}

// LeaderboardRepository persists (name, score) rows. Record applies the
// table's declared mode: replace-by-name or append-keeping-history.
type LeaderboardRepository interface {
	List(ctx context.Context) ([]LeaderboardRow, error)
	Record(ctx context.Context, row LeaderboardRow) error
}

// GoalsRepository persists the singleton daily-targets row.
type GoalsRepository interface {
	Get(ctx context.Context) (*Goals, error)
	Replace(ctx context.Context, goals Goals) error
}

// EventPublisher emits submission events. Publish failures never abort
// the submission pipeline.
type EventPublisher interface {
	PublishSubmissionRecorded(ctx context.Context, event events.SubmissionRecorded) error
	PublishScoreUpdated(ctx context.Context, event events.ScoreUpdated) error
}

// Service orchestrates the submission pipeline: project, score, persist,
// publish, read back.
type Service struct {
	formula     Formula
	horizons    []int
	history     HistoryRepository
	leaderboard LeaderboardRepository
	goals       GoalsRepository
	publisher   EventPublisher
	logger      *log.Logger
	now         func() time.Time
}

// Option configures optional Service behaviour.
type Option func(*Service)

// WithPublisher attaches an event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger overrides the logger used for degraded-read warnings.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithHorizons overrides the projected horizons. The scoring horizon
// (five years) must be included for submissions to succeed.
func WithHorizons(horizons []int) Option {
	return func(s *Service) { s.horizons = horizons }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a Service.
func NewService(formula Formula, history HistoryRepository, leaderboard LeaderboardRepository, goals GoalsRepository, opts ...Option) *Service {
	s := &Service{
		formula:     formula,
		horizons:    []int{3, 5, 10},
		history:     history,
		leaderboard: leaderboard,
		goals:       goals,
		logger:      log.New(log.Writer(), "[pipeline] ", log.LstdFlags),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitHabitsInput carries a validated habit vector into the pipeline.
type SubmitHabitsInput struct {
	Name   string
	Date   string // YYYY-MM-DD; empty means today
	Habits HabitVector
}

// SubmissionResult is the pipeline output handed back to the caller.
type SubmissionResult struct {
	SubmissionID string
	Date         string
	Projections  []Metrics
	Suggestions  []Suggestion
	Score        float64
	Leaderboard  []LeaderboardRow
}

// SubmitHabits runs the sequential submission pipeline. The habit vector
// must already be validated. Persistence failures propagate; event
// publishing and the leaderboard read-back degrade with a logged warning.
func (s *Service) SubmitHabits(ctx context.Context, input SubmitHabitsInput) (*SubmissionResult, error) {
	projections := make([]Metrics, 0, len(s.horizons))
	for _, years := range s.horizons {
		projections = append(projections, s.formula.Project(input.Habits, years))
		observability.RecordProjectionComputed()
	}

	score, err := DeriveScore(projections)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	}

	if err := s.history.Upsert(ctx, input.Name, HabitHistoryEntry{Date: date, Habits: input.Habits}); err != nil {
		return nil, err
	}
	if err := s.leaderboard.Record(ctx, LeaderboardRow{Name: input.Name, Score: score}); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	observability.RecordSubmissionPersisted(now)
	observability.RecordLeaderboardUpdate(now)

	submissionID := uuid.NewString()
	if s.publisher != nil {
		recorded := events.SubmissionRecorded{
			SubmissionID: submissionID,
			User:         input.Name,
			Date:         date,
			Horizons:     append([]int(nil), s.horizons...),
			Score:        score,
			RecordedAt:   now,
		}
		if err := s.publisher.PublishSubmissionRecorded(ctx, recorded); err != nil {
			s.logger.Printf("publish submission_recorded failed: %v", err)
		}
		updated := events.ScoreUpdated{User: input.Name, Score: score, OccurredAt: now}
		if err := s.publisher.PublishScoreUpdated(ctx, updated); err != nil {
			s.logger.Printf("publish score_updated failed: %v", err)
		}
	}

	rows, _, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{
		SubmissionID: submissionID,
		Date:         date,
		Projections:  projections,
		Suggestions:  Advise(input.Habits),
		Score:        score,
		Leaderboard:  rows,
	}, nil
}

// Leaderboard returns rows sorted descending by score, ties staying in
// insertion order. The degraded flag reports a corrupt-table fallback.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardRow, bool, error) {
	rows, err := s.leaderboard.List(ctx)
	if err != nil {
		if errors.Is(err, ErrTableCorrupt) {
			s.logger.Printf("leaderboard table unreadable, serving empty: %v", err)
			observability.RecordTableLoadFallback()
			return []LeaderboardRow{}, true, nil
		}
		return nil, false, err
	}

	sorted := make([]LeaderboardRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	return sorted, false, nil
}

// History returns the stored habit entries for a user. The degraded flag
// reports a corrupt-table fallback.
func (s *Service) History(ctx context.Context, user string) ([]HabitHistoryEntry, bool, error) {
	entries, err := s.history.ListByUser(ctx, user)
	if err != nil {
		if errors.Is(err, ErrTableCorrupt) {
			s.logger.Printf("habit history for %q unreadable, serving empty: %v", user, err)
			observability.RecordTableLoadFallback()
			return []HabitHistoryEntry{}, true, nil
		}
		return nil, false, err
	}
	return entries, false, nil
}

// Goals returns the stored daily targets, or nil when none are set.
func (s *Service) Goals(ctx context.Context) (*Goals, bool, error) {
	goals, err := s.goals.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrTableCorrupt) {
			s.logger.Printf("goals table unreadable, serving empty: %v", err)
			observability.RecordTableLoadFallback()
			return nil, true, nil
		}
		return nil, false, err
	}
	return goals, false, nil
}

// SaveGoals overwrites the singleton goals row.
func (s *Service) SaveGoals(ctx context.Context, goals Goals) error {
	return s.goals.Replace(ctx, goals)
}
