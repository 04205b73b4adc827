// Package api exposes the HTTP surface of the future-me service. It is
// the validation boundary: raw form values become a HabitVector here, and
// presentation rounding is applied here, never inside the engine.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"example.com/futureme/internal/domain"
	"example.com/futureme/internal/portrait"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service   *domain.Service
	generator portrait.Generator
	logger    *log.Logger
}

// NewHandler builds a Handler. A nil generator disables the portrait flow.
func NewHandler(service *domain.Service, generator portrait.Generator, logger *log.Logger) *Handler {
	if generator == nil {
		generator = portrait.NoopGenerator{}
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[api] ", log.LstdFlags)
	}
	return &Handler{service: service, generator: generator, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/submissions", h.submissions)
	mux.HandleFunc("/v1/leaderboard", h.leaderboard)
	mux.HandleFunc("/v1/history", h.history)
	mux.HandleFunc("/v1/goals", h.goals)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) submissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	habits := req.HabitVector()
	result, err := h.service.SubmitHabits(r.Context(), domain.SubmitHabitsInput{
		Name:   req.Name,
		Date:   req.Date,
		Habits: habits,
	})
	if err != nil {
		if errors.Is(err, domain.ErrScoringHorizonMissing) {
			h.logger.Printf("scoring contract violated: %v", err)
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := SubmitResponse{
		SubmissionID: result.SubmissionID,
		Date:         result.Date,
		Score:        round2(result.Score),
		Projections:  toProjectionViews(result.Projections),
		Suggestions:  toSuggestionViews(result.Suggestions),
		Leaderboard:  toLeaderboardViews(result.Leaderboard),
	}

	// Portrait flow needs the optional profile fields; image failures
	// degrade to a warning while projections still render.
	if habits.Age > 0 && habits.Gender != "" {
		resp.PortraitPrompt = portrait.BuildPrompt(habits)
		url, err := h.generator.Generate(r.Context(), resp.PortraitPrompt)
		if err != nil {
			h.logger.Printf("portrait generation failed: %v", err)
			resp.PortraitWarning = "portrait image unavailable; showing prompt only"
		} else {
			resp.PortraitURL = url
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	rows, degraded, err := h.service.Leaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := LeaderboardResponse{Items: toLeaderboardViews(rows)}
	if degraded {
		resp.Warning = "leaderboard file was unreadable; showing an empty board"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user := r.URL.Query().Get("user")
	if strings.TrimSpace(user) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user parameter")
		return
	}

	entries, degraded, err := h.service.History(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]HistoryEntryView, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toHistoryEntryView(entry))
	}
	resp := HistoryResponse{Items: items}
	if degraded {
		resp.Warning = "habit history file was unreadable; showing an empty history"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) goals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getGoals(w, r)
	case http.MethodPut:
		h.putGoals(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getGoals(w http.ResponseWriter, r *http.Request) {
	goals, degraded, err := h.service.Goals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := GoalsResponse{}
	if goals != nil {
		view := toGoalsView(*goals)
		resp.Goals = &view
	}
	if degraded {
		resp.Warning = "goals file was unreadable; no goals set"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) putGoals(w http.ResponseWriter, r *http.Request) {
	var req GoalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	goals := domain.Goals{
		SleepHours:      req.SleepHours,
		WaterGlasses:    req.WaterGlasses,
		ActivityMinutes: req.ActivityMinutes,
	}
	if err := h.service.SaveGoals(r.Context(), goals); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	view := toGoalsView(goals)
	writeJSON(w, http.StatusOK, GoalsResponse{Goals: &view})
}

// SubmitRequest is the payload for POST /v1/submissions.
type SubmitRequest struct {
	Name            string  `json:"name"`
	Date            string  `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	SleepHours      float64 `json:"sleep_hours"`
	FoodQuality     int     `json:"food_quality"`
	ScreenTimeHours float64 `json:"screen_time_hours"`
	StressLevel     int     `json:"stress_level"`
	ActivityMinutes int     `json:"activity_minutes"`
	CaffeineCups    int     `json:"caffeine_cups"`
	WaterGlasses    int     `json:"water_glasses"`
	Age             int     `json:"age,omitempty"`
	HeightCm        float64 `json:"height_cm,omitempty"`
	Gender          string  `json:"gender,omitempty"`
}

// Validate checks every field against its domain before the vector
// crosses into the engine.
func (r SubmitRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return errors.New("date must be YYYY-MM-DD")
		}
	}
	if r.SleepHours < 0 || r.SleepHours > 24 {
		return errors.New("sleep_hours must be between 0 and 24")
	}
	if r.FoodQuality < 1 || r.FoodQuality > 5 {
		return errors.New("food_quality must be between 1 and 5")
	}
	if r.ScreenTimeHours < 0 || r.ScreenTimeHours > 24 {
		return errors.New("screen_time_hours must be between 0 and 24")
	}
	if r.StressLevel < 1 || r.StressLevel > 5 {
		return errors.New("stress_level must be between 1 and 5")
	}
	if r.ActivityMinutes < 0 {
		return errors.New("activity_minutes must be >= 0")
	}
	if r.CaffeineCups < 0 {
		return errors.New("caffeine_cups must be >= 0")
	}
	if r.WaterGlasses < 0 {
		return errors.New("water_glasses must be >= 0")
	}
	if r.Age != 0 && (r.Age < 1 || r.Age > 120) {
		return errors.New("age must be between 1 and 120")
	}
	if r.HeightCm != 0 && (r.HeightCm < 50 || r.HeightCm > 250) {
		return errors.New("height_cm must be between 50 and 250")
	}
	switch strings.ToLower(r.Gender) {
	case "", string(domain.GenderMale), string(domain.GenderFemale):
	default:
		return errors.New("gender must be male or female")
	}
	return nil
}

// HabitVector converts the validated request into the domain snapshot.
func (r SubmitRequest) HabitVector() domain.HabitVector {
	return domain.HabitVector{
		SleepHours:      r.SleepHours,
		FoodQuality:     r.FoodQuality,
		ScreenTimeHours: r.ScreenTimeHours,
		StressLevel:     r.StressLevel,
		ActivityMinutes: r.ActivityMinutes,
		CaffeineCups:    r.CaffeineCups,
		WaterGlasses:    r.WaterGlasses,
		Age:             r.Age,
		HeightCm:        r.HeightCm,
		Gender:          domain.Gender(strings.ToLower(r.Gender)),
	}
}

// ProjectionView carries one horizon's metrics rounded for display.
type ProjectionView struct {
	HorizonYears      int     `json:"horizon_years"`
	PredictedWeightKg float64 `json:"predicted_weight_kg"`
	PredictedEnergy   float64 `json:"predicted_energy"`
	PredictedFocus    float64 `json:"predicted_focus"`
}

// SuggestionView is one rendered recommendation.
type SuggestionView struct {
	Message  string `json:"message"`
	ImageRef string `json:"image_ref,omitempty"`
}

// LeaderboardRowView is one ranked row with the score rounded for display.
type LeaderboardRowView struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// HistoryEntryView is one stored habit day.
type HistoryEntryView struct {
	Date            string  `json:"date"`
	SleepHours      float64 `json:"sleep_hours"`
	FoodQuality     int     `json:"food_quality"`
	ScreenTimeHours float64 `json:"screen_time_hours"`
	StressLevel     int     `json:"stress_level"`
	ActivityMinutes int     `json:"activity_minutes"`
	CaffeineCups    int     `json:"caffeine_cups"`
	WaterGlasses    int     `json:"water_glasses"`
}

// SubmitResponse packages the full pipeline output.
type SubmitResponse struct {
	SubmissionID    string               `json:"submission_id"`
	Date            string               `json:"date"`
	Score           float64              `json:"score"`
	Projections     []ProjectionView     `json:"projections"`
	Suggestions     []SuggestionView     `json:"suggestions"`
	Leaderboard     []LeaderboardRowView `json:"leaderboard"`
	PortraitPrompt  string               `json:"portrait_prompt,omitempty"`
	PortraitURL     string               `json:"portrait_url,omitempty"`
	PortraitWarning string               `json:"portrait_warning,omitempty"`
}

// LeaderboardResponse packages ranked rows.
type LeaderboardResponse struct {
	Items   []LeaderboardRowView `json:"items"`
	Warning string               `json:"warning,omitempty"`
}

// HistoryResponse packages stored habit days.
type HistoryResponse struct {
	Items   []HistoryEntryView `json:"items"`
	Warning string             `json:"warning,omitempty"`
}

// GoalsRequest is the payload for PUT /v1/goals.
type GoalsRequest struct {
	SleepHours      float64 `json:"sleep_hours"`
	WaterGlasses    int     `json:"water_glasses"`
	ActivityMinutes int     `json:"activity_minutes"`
}

// Validate ensures goal targets are sensible.
func (r GoalsRequest) Validate() error {
	if r.SleepHours < 0 || r.SleepHours > 24 {
		return errors.New("sleep_hours must be between 0 and 24")
	}
	if r.WaterGlasses < 0 {
		return errors.New("water_glasses must be >= 0")
	}
	if r.ActivityMinutes < 0 {
		return errors.New("activity_minutes must be >= 0")
	}
	return nil
}

// GoalsView is the stored goals row.
type GoalsView struct {
	SleepHours      float64 `json:"sleep_hours"`
	WaterGlasses    int     `json:"water_glasses"`
	ActivityMinutes int     `json:"activity_minutes"`
}

// GoalsResponse wraps the optional goals row.
type GoalsResponse struct {
	Goals   *GoalsView `json:"goals"`
	Warning string     `json:"warning,omitempty"`
}

func toProjectionViews(projections []domain.Metrics) []ProjectionView {
	out := make([]ProjectionView, 0, len(projections))
	for _, m := range projections {
		out = append(out, ProjectionView{
			HorizonYears:      m.HorizonYears,
			PredictedWeightKg: round1(m.PredictedWeightKg),
			PredictedEnergy:   round1(m.PredictedEnergy),
			PredictedFocus:    round1(m.PredictedFocus),
		})
	}
	return out
}

func toSuggestionViews(suggestions []domain.Suggestion) []SuggestionView {
	out := make([]SuggestionView, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, SuggestionView{Message: s.Message, ImageRef: s.ImageRef})
	}
	return out
}

func toLeaderboardViews(rows []domain.LeaderboardRow) []LeaderboardRowView {
	out := make([]LeaderboardRowView, 0, len(rows))
	for _, row := range rows {
		out = append(out, LeaderboardRowView{Name: row.Name, Score: round2(row.Score)})
	}
	return out
}

func toHistoryEntryView(entry domain.HabitHistoryEntry) HistoryEntryView {
	h := entry.Habits
	return HistoryEntryView{
		Date:            entry.Date,
		SleepHours:      h.SleepHours,
		FoodQuality:     h.FoodQuality,
		ScreenTimeHours: h.ScreenTimeHours,
		StressLevel:     h.StressLevel,
		ActivityMinutes: h.ActivityMinutes,
		CaffeineCups:    h.CaffeineCups,
		WaterGlasses:    h.WaterGlasses,
	}
}

func toGoalsView(goals domain.Goals) GoalsView {
	return GoalsView{
		SleepHours:      goals.SleepHours,
		WaterGlasses:    goals.WaterGlasses,
		ActivityMinutes: goals.ActivityMinutes,
	}
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Fprintf(w, `{"type":"server_error","detail":"encode failed"}`)
	}
}
