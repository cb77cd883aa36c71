package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wonny/krxusd/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// parseRangeOptions reads start/end (YYYY-MM-DD) and carry_forward from the
// query string. Zero bounds fall back to the service default span.
func parseRangeOptions(r *http.Request) (service.HistoryOptions, error) {
	var opts service.HistoryOptions

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return opts, err
		}
		opts.Start = t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return opts, err
		}
		opts.End = t
	}
	opts.CarryForward = r.URL.Query().Get("carry_forward") == "true"

	return opts, nil
}
