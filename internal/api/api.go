// Package api exposes the view-layer intent surface over HTTP: state
// reads, timer transitions, goal edits, analytics, and a WebSocket
// stream of state snapshots.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fokus/internal/analytics"
	"fokus/internal/auth"
	"fokus/internal/export"
	"fokus/internal/models"
	"fokus/internal/state"
	"fokus/internal/timer"
	"fokus/internal/timeutil"
)

// Server provides the REST and WebSocket handlers.
type Server struct {
	app     *state.Store
	machine *timer.Machine
	auth    *auth.Service
	logger  *slog.Logger
	hub     *hub
}

// NewServer creates a new API server over the given state store, timer
// machine, and auth service.
func NewServer(app *state.Store, m *timer.Machine, a *auth.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{app: app, machine: m, auth: a, logger: logger}
	s.hub = newHub(app, logger)
	return s
}

// Router returns an http.Handler for all routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/state", s.getState)

	mux.HandleFunc("POST /api/v1/timer/start", s.timerIntent(s.machine.Start))
	mux.HandleFunc("POST /api/v1/timer/pause", s.timerIntent(s.machine.Pause))
	mux.HandleFunc("POST /api/v1/timer/finish", s.timerIntent(s.machine.Finish))
	mux.HandleFunc("POST /api/v1/timer/reset", s.timerIntent(s.machine.Reset))
	mux.HandleFunc("POST /api/v1/timer/adjust", s.adjustTimer)
	mux.HandleFunc("POST /api/v1/timer/mode", s.setMode)
	mux.HandleFunc("POST /api/v1/timer/type", s.setSessionType)
	mux.HandleFunc("POST /api/v1/timer/category", s.setCategory)
	mux.HandleFunc("POST /api/v1/timer/note", s.setNote)

	mux.HandleFunc("GET /api/v1/sessions", s.listSessions)
	mux.HandleFunc("GET /api/v1/stats/today", s.statsToday)
	mux.HandleFunc("GET /api/v1/stats/week", s.statsWeek)
	mux.HandleFunc("GET /api/v1/stats/categories", s.statsCategories)
	mux.HandleFunc("GET /api/v1/calendar/{year}/{month}", s.calendarMonth)

	mux.HandleFunc("PUT /api/v1/goals", s.setGoals)

	mux.HandleFunc("POST /api/v1/auth/signin", s.signIn)
	mux.HandleFunc("POST /api/v1/auth/signout", s.signOut)

	mux.HandleFunc("GET /api/v1/export", s.exportData)

	mux.HandleFunc("/ws", s.hub.handleWebSocket)

	return corsMiddleware(mux)
}

// Close releases the server's store subscription and open sockets.
func (s *Server) Close() {
	s.hub.close()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- State & timer intents ---

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.State())
}

// timerIntent wraps a no-argument transition and replies with the
// resulting state.
func (s *Server) timerIntent(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn()
		writeJSON(w, http.StatusOK, s.app.State())
	}
}

func (s *Server) adjustTimer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.machine.Adjust(req.Delta)
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) setMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode models.Mode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Mode != models.ModeFocus && req.Mode != models.ModeBreak {
		writeError(w, http.StatusBadRequest, "mode must be focus or break")
		return
	}
	s.machine.SetMode(req.Mode)
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) setSessionType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionType models.SessionType `json:"sessionType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.SessionType {
	case models.SessionTypeDeepWork, models.SessionTypeShallowWork, models.SessionTypeMeeting:
	default:
		writeError(w, http.StatusBadRequest, "unknown session type")
		return
	}
	s.machine.SetSessionType(req.SessionType)
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) setCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryID string `json:"categoryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.machine.SetCategory(req.CategoryID)
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) setNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.machine.SetNote(req.Note)
	writeJSON(w, http.StatusOK, s.app.State())
}

// --- Sessions & analytics ---

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.State().Sessions)
}

type statsResponse struct {
	SessionCount int     `json:"sessionCount"`
	TotalSeconds int     `json:"totalSeconds"`
	TotalMinutes int     `json:"totalMinutes"`
	GoalProgress float64 `json:"goalProgress"`
	FocusScore   int     `json:"focusScore"`
}

func (s *Server) statsToday(w http.ResponseWriter, r *http.Request) {
	st := s.app.State()
	today := analytics.Today(st.Sessions, st.Goals, time.Now())
	writeJSON(w, http.StatusOK, statsResponse{
		SessionCount: today.SessionCount,
		TotalSeconds: today.TotalSeconds,
		TotalMinutes: today.TotalMinutes,
		GoalProgress: today.GoalProgress,
		FocusScore:   analytics.FocusScore(today, st.Streak),
	})
}

func (s *Server) statsWeek(w http.ResponseWriter, r *http.Request) {
	st := s.app.State()
	now := time.Now()
	week := analytics.Week(st.Sessions, st.Goals, now)
	today := analytics.Today(st.Sessions, st.Goals, now)
	writeJSON(w, http.StatusOK, statsResponse{
		SessionCount: week.SessionCount,
		TotalSeconds: week.TotalSeconds,
		TotalMinutes: week.TotalMinutes,
		GoalProgress: week.GoalProgress,
		FocusScore:   analytics.FocusScore(today, st.Streak),
	})
}

func (s *Server) statsCategories(w http.ResponseWriter, r *http.Request) {
	st := s.app.State()
	writeJSON(w, http.StatusOK, analytics.CategoryBreakdown(st.Sessions))
}

type calendarDay struct {
	Date      string `json:"date"`
	Seconds   int    `json:"seconds"`
	Intensity int    `json:"intensity"`
}

func (s *Server) calendarMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	st := s.app.State()
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	totals := make(map[string]int)
	for _, sess := range st.Sessions {
		if sess.Kind != models.KindFocus {
			continue
		}
		if sess.StartTime.Year() == year && sess.StartTime.Month() == time.Month(month) {
			totals[timeutil.DayKey(sess.StartTime)] += sess.Duration
		}
	}

	var days []calendarDay
	for d := first; d.Month() == time.Month(month); d = d.AddDate(0, 0, 1) {
		secs := totals[timeutil.DayKey(d)]
		days = append(days, calendarDay{
			Date:      timeutil.DayKey(d),
			Seconds:   secs,
			Intensity: analytics.Intensity(secs),
		})
	}
	writeJSON(w, http.StatusOK, days)
}

// --- Goals & auth ---

func (s *Server) setGoals(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Daily  *int `json:"daily"`
		Weekly *int `json:"weekly"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if (req.Daily != nil && *req.Daily <= 0) || (req.Weekly != nil && *req.Weekly <= 0) {
		writeError(w, http.StatusBadRequest, "goals must be positive minutes")
		return
	}

	s.app.Apply(state.Patch{Goals: &state.GoalsPatch{Daily: req.Daily, Weekly: req.Weekly}})

	// Durable save is best-effort; signed-out users keep local goals.
	if err := s.auth.SaveProfile(r.Context()); err != nil && !errors.Is(err, auth.ErrNoUser) {
		s.logger.Warn("goal save failed", "error", err)
	}
	writeJSON(w, http.StatusOK, s.app.State().Goals)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	u, err := s.auth.SignIn(r.Context(), req.Email, req.DisplayName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	s.auth.SignOut()
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) exportData(w http.ResponseWriter, r *http.Request) {
	snap := export.FromState(s.app.State(), time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := snap.WriteJSON(w); err != nil {
		s.logger.Warn("export write failed", "error", err)
	}
}
