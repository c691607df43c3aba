package oauth

import "net/http"

type config struct {
	httpClient *http.Client
}

// Option configures a provider.
type Option func(*config)

// WithHTTPClient sets the client used for the code exchange and user API
// calls. Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		if client != nil {
			c.httpClient = client
		}
	}
}
