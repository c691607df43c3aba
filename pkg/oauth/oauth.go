// Package oauth implements social sign-in through OAuth 2.0 providers.
//
// A Provider wraps one upstream identity service (Google, GitHub) and
// reduces its user API to a single Profile shape. Flow layers the
// browser-facing half on top: it issues the anti-forgery state, keeps it
// in a short-lived cookie, and checks it on the callback before the code
// exchange runs.
package oauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

var (
	// ErrInvalidConfig is returned by provider constructors for a missing
	// client ID or secret.
	ErrInvalidConfig = errors.New("oauth: client ID and secret are required")

	// ErrEmailNotVerified is returned when the provider holds no verified
	// email address for the user. Accounts without a verified email must
	// not be signed in.
	ErrEmailNotVerified = errors.New("oauth: email not verified by provider")

	// ErrProviderResponse is returned when the provider's user API answers
	// with an unexpected status or an undecodable body.
	ErrProviderResponse = errors.New("oauth: unexpected provider response")

	// ErrStateMismatch is returned by Flow.Complete when the callback's
	// state does not match the one issued at the start of the flow.
	ErrStateMismatch = errors.New("oauth: state mismatch")
)

// Profile is the provider-agnostic identity an OAuth sign-in yields.
// Email is always verified by the provider; constructors guarantee this by
// returning ErrEmailNotVerified instead of a profile otherwise.
type Profile struct {
	Provider  string
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// Provider is one upstream OAuth 2.0 identity service.
type Provider interface {
	// Name identifies the provider, e.g. "google".
	Name() string

	// AuthURL builds the authorization redirect for the given state.
	AuthURL(state string) string

	// Exchange trades the callback code for a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Profile fetches the signed-in user's identity with the token.
	Profile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// Config carries the registration a provider needs. Scopes may be left
// empty to use the provider's defaults.
type Config struct {
	ClientID     string   `env:"CLIENT_ID,required"`
	ClientSecret string   `env:"CLIENT_SECRET,required"`
	RedirectURL  string   `env:"REDIRECT_URL"`
	Scopes       []string `env:"SCOPES" envSeparator:","`
}

func (c Config) valid() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrInvalidConfig
	}
	return nil
}
