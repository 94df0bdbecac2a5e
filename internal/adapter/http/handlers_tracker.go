package adapthttp

import (
	"errors"
	"net/http"

	"carbontrack/internal/app"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	user := userFromContext(r)
	s.servePage(w, r, "index.html", "Welcome, "+user.Username+".")
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	activity, err := app.ParseActivity(r.PostForm)
	var verr *app.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	user := userFromContext(r)
	rec, err := s.footprint.Track(r.Context(), user.Username, activity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"day":       rec.Day,
		"total":     rec.Total,
		"breakdown": rec.Breakdown,
	})
}

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	user := userFromContext(r)

	rows, err := s.report.DailyTotals(ctx, user.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	average, err := s.report.GlobalAverage(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	limit := intQuery(r, "limit", 30)
	recent, err := s.report.ListRecent(ctx, user.Username, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rows":    rows,
		"average": average,
		"recent":  recent,
	})
}
