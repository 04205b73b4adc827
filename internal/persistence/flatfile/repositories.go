package flatfile

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"example.com/futureme/internal/domain"
)

// TableMode selects the write semantics a table declares.
type TableMode string

const (
	// ModeUpsert replaces rows by key, keeping the latest score per name.
	ModeUpsert TableMode = "upsert"
	// ModeAppend keeps the full score history, duplicates included.
	ModeAppend TableMode = "append"
)

// ParseTableMode validates a configured mode string.
func ParseTableMode(value string) (TableMode, error) {
	switch TableMode(value) {
	case ModeUpsert, "":
		return ModeUpsert, nil
	case ModeAppend:
		return ModeAppend, nil
	default:
		return "", fmt.Errorf("unknown table mode: %s", value)
	}
}

var historyColumns = []string{"Date", "Sleep", "Food", "Screen", "Stress", "Activity", "Caffeine", "Water"}

// HistoryStore persists habit history, one CSV file per user identity so
// entries stay keyed by (user, date).
type HistoryStore struct {
	dir string

	mu     sync.Mutex
	tables map[string]*Table[domain.HabitHistoryEntry]
}

// NewHistoryStore constructs a HistoryStore rooted at dir.
func NewHistoryStore(dir string) *HistoryStore {
	return &HistoryStore{
		dir:    dir,
		tables: make(map[string]*Table[domain.HabitHistoryEntry]),
	}
}

func (s *HistoryStore) tableFor(user string) *Table[domain.HabitHistoryEntry] {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug := userSlug(user)
	if table, ok := s.tables[slug]; ok {
		return table
	}
	table := NewTable(
		filepath.Join(s.dir, "habits_"+slug+".csv"),
		historyColumns,
		encodeHistoryEntry,
		decodeHistoryEntry,
		func(e domain.HabitHistoryEntry) string { return e.Date },
	)
	s.tables[slug] = table
	return table
}

// ListByUser implements domain.HistoryRepository.
func (s *HistoryStore) ListByUser(ctx context.Context, user string) ([]domain.HabitHistoryEntry, error) {
	return s.tableFor(user).Load(ctx)
}

// Upsert implements domain.HistoryRepository.
func (s *HistoryStore) Upsert(ctx context.Context, user string, entry domain.HabitHistoryEntry) error {
	return s.tableFor(user).Upsert(ctx, entry)
}

// userSlug maps an arbitrary display name onto a safe file-name fragment.
// Distinct names may collide after slugging; acceptable for display-name
// identity, which is unvalidated anyway.
func userSlug(user string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(user)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "anonymous"
	}
	return b.String()
}

func encodeHistoryEntry(e domain.HabitHistoryEntry) []string {
	h := e.Habits
	return []string{
		e.Date,
		formatFloat(h.SleepHours),
		strconv.Itoa(h.FoodQuality),
		formatFloat(h.ScreenTimeHours),
		strconv.Itoa(h.StressLevel),
		strconv.Itoa(h.ActivityMinutes),
		strconv.Itoa(h.CaffeineCups),
		strconv.Itoa(h.WaterGlasses),
	}
}

func decodeHistoryEntry(record []string) (domain.HabitHistoryEntry, error) {
	var entry domain.HabitHistoryEntry
	entry.Date = record[0]

	var err error
	if entry.Habits.SleepHours, err = strconv.ParseFloat(record[1], 64); err != nil {
		return entry, fmt.Errorf("sleep: %v", err)
	}
	if entry.Habits.FoodQuality, err = strconv.Atoi(record[2]); err != nil {
		return entry, fmt.Errorf("food: %v", err)
	}
	if entry.Habits.ScreenTimeHours, err = strconv.ParseFloat(record[3], 64); err != nil {
		return entry, fmt.Errorf("screen: %v", err)
	}
	if entry.Habits.StressLevel, err = strconv.Atoi(record[4]); err != nil {
		return entry, fmt.Errorf("stress: %v", err)
	}
	if entry.Habits.ActivityMinutes, err = strconv.Atoi(record[5]); err != nil {
		return entry, fmt.Errorf("activity: %v", err)
	}
	if entry.Habits.CaffeineCups, err = strconv.Atoi(record[6]); err != nil {
		return entry, fmt.Errorf("caffeine: %v", err)
	}
	if entry.Habits.WaterGlasses, err = strconv.Atoi(record[7]); err != nil {
		return entry, fmt.Errorf("water: %v", err)
	}
	return entry, nil
}

var leaderboardColumns = []string{"Name", "Score"}

// LeaderboardStore persists (name, score) rows in a single CSV table.
type LeaderboardStore struct {
	table *Table[domain.LeaderboardRow]
	mode  TableMode
}

// NewLeaderboardStore constructs a LeaderboardStore with the declared
// write mode.
func NewLeaderboardStore(dir string, mode TableMode) *LeaderboardStore {
	table := NewTable(
		filepath.Join(dir, "leaderboard.csv"),
		leaderboardColumns,
		func(r domain.LeaderboardRow) []string {
			return []string{r.Name, formatFloat(r.Score)}
		},
		func(record []string) (domain.LeaderboardRow, error) {
			score, err := strconv.ParseFloat(record[1], 64)
			if err != nil {
				return domain.LeaderboardRow{}, fmt.Errorf("score: %v", err)
			}
			return domain.LeaderboardRow{Name: record[0], Score: score}, nil
		},
		func(r domain.LeaderboardRow) string { return r.Name },
	)
	return &LeaderboardStore{table: table, mode: mode}
}

// List implements domain.LeaderboardRepository.
func (s *LeaderboardStore) List(ctx context.Context) ([]domain.LeaderboardRow, error) {
	return s.table.Load(ctx)
}

// Record implements domain.LeaderboardRepository.
func (s *LeaderboardStore) Record(ctx context.Context, row domain.LeaderboardRow) error {
	if s.mode == ModeAppend {
		return s.table.Append(ctx, row)
	}
	return s.table.Upsert(ctx, row)
}

var goalsColumns = []string{"Sleep", "Water", "Activity"}

// GoalsStore persists the singleton goals row.
type GoalsStore struct {
	table *Table[domain.Goals]
}

// NewGoalsStore constructs a GoalsStore.
func NewGoalsStore(dir string) *GoalsStore {
	table := NewTable(
		filepath.Join(dir, "goals.csv"),
		goalsColumns,
		func(g domain.Goals) []string {
			return []string{formatFloat(g.SleepHours), strconv.Itoa(g.WaterGlasses), strconv.Itoa(g.ActivityMinutes)}
		},
		func(record []string) (domain.Goals, error) {
			var g domain.Goals
			var err error
			if g.SleepHours, err = strconv.ParseFloat(record[0], 64); err != nil {
				return g, fmt.Errorf("sleep: %v", err)
			}
			if g.WaterGlasses, err = strconv.Atoi(record[1]); err != nil {
				return g, fmt.Errorf("water: %v", err)
			}
			if g.ActivityMinutes, err = strconv.Atoi(record[2]); err != nil {
				return g, fmt.Errorf("activity: %v", err)
			}
			return g, nil
		},
		nil,
	)
	return &GoalsStore{table: table}
}

// Get implements domain.GoalsRepository; nil means no goals are stored.
func (s *GoalsStore) Get(ctx context.Context) (*domain.Goals, error) {
	rows, err := s.table.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	goals := rows[0]
	return &goals, nil
}

// Replace implements domain.GoalsRepository, overwriting wholesale.
func (s *GoalsStore) Replace(ctx context.Context, goals domain.Goals) error {
	return s.table.Replace(ctx, []domain.Goals{goals})
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
