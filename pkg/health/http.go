package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// LivenessHandler answers 200 unconditionally: reaching it proves the
// process is up. Wire it to the liveness probe.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, &Report{Status: StatusHealthy})
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler runs the given checks per request and answers 200 when
// all pass, 503 otherwise. Plain-text by default; clients asking for JSON
// (Accept header or ?format=json) get the full per-check report.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	runner := newRunner(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		report := runner.run(r.Context(), checks)

		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(r) {
			writeJSON(w, status, report)
			return
		}

		w.WriteHeader(status)
		if report.Healthy() {
			_, _ = w.Write([]byte("OK"))
		} else {
			_, _ = w.Write([]byte("Service Unavailable"))
		}
	}
}

// wantsJSON prefers the query parameter so the report is reachable from a
// browser address bar.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
