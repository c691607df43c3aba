package htmx

import (
	"encoding/json"
	"net/http"
)

// LocationOptions is the JSON payload of an HX-Location header, steering
// where and how the client swaps in the fetched page.
type LocationOptions struct {
	Path    string            `json:"path"`
	Source  string            `json:"source,omitempty"`
	Event   string            `json:"event,omitempty"`
	Handler string            `json:"handler,omitempty"`
	Target  string            `json:"target,omitempty"`
	Swap    string            `json:"swap,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Select  string            `json:"select,omitempty"`
}

// Location navigates the client to path without a full page load, adding a
// history entry. Requests not made by htmx get an ordinary 302 instead, so
// one handler serves both kinds of client.
func Location(w http.ResponseWriter, r *http.Request, path string) {
	if !IsHTMX(r) {
		http.Redirect(w, r, path, http.StatusFound)
		return
	}
	w.Header().Set(HeaderHXLocation, path)
	w.WriteHeader(http.StatusOK)
}

// LocationTarget is Location with the fetched content swapped into the
// element matching target.
func LocationTarget(w http.ResponseWriter, r *http.Request, path, target string) {
	LocationWithOptions(w, r, LocationOptions{Path: path, Target: target})
}

// LocationWithOptions is Location with the full option payload. Non-htmx
// requests fall back to a 302 to opts.Path, losing the swap details by
// nature of a full page load.
func LocationWithOptions(w http.ResponseWriter, r *http.Request, opts LocationOptions) {
	if !IsHTMX(r) {
		http.Redirect(w, r, opts.Path, http.StatusFound)
		return
	}

	payload, err := json.Marshal(opts)
	if err != nil {
		// Unserializable options degrade to a bare path navigation.
		w.Header().Set(HeaderHXLocation, opts.Path)
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set(HeaderHXLocation, string(payload))
	w.WriteHeader(http.StatusOK)
}
