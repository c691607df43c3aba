package htmx

import "net/http"

// Redirect sends the client to url: a 302 for plain requests, an
// HX-Redirect for htmx ones. htmx insists on a 200 response and performs
// the navigation itself from the header.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	RedirectWithStatus(w, r, url, http.StatusFound)
}

// RedirectWithStatus is Redirect with a chosen status code for the plain
// path; htmx requests still get 200 plus the header.
func RedirectWithStatus(w http.ResponseWriter, r *http.Request, url string, status int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, status)
}

// RedirectBack returns the client to the URL named in the "redirect" query
// parameter, or to fallback when the parameter is absent.
func RedirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	url := r.URL.Query().Get("redirect")
	if url == "" {
		url = fallback
	}
	Redirect(w, r, url)
}
