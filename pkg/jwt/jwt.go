package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const minKeyLen = 32

// encodedHeader is the fixed JOSE header for every token this package
// produces. Only HS256 is supported, so it never varies.
var encodedHeader = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

// Service signs and verifies compact HS256 tokens with a single shared key.
type Service struct {
	signingKey []byte
}

// New creates a Service bound to signingKey.
// Returns ErrInvalidSigningKey for keys shorter than 32 bytes.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) < minKeyLen {
		return nil, ErrInvalidSigningKey
	}
	return &Service{signingKey: signingKey}, nil
}

// NewFromString creates a Service from a string key.
func NewFromString(signingKey string) (*Service, error) {
	return New([]byte(signingKey))
}

// Generate marshals claims to JSON and returns the signed compact token.
func (s *Service) Generate(claims any) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("jwt: marshal claims: %w", err)
	}

	unsigned := encodedHeader + "." + base64.RawURLEncoding.EncodeToString(payload)
	return unsigned + "." + base64.RawURLEncoding.EncodeToString(s.sign(unsigned)), nil
}

// Parse verifies token and unmarshals its payload into claims, which must
// be a pointer. The signature is checked before the payload is decoded.
// If claims implements [Claims], its Valid method runs last and its error
// is returned as-is.
func (s *Service) Parse(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return ErrInvalidToken
	}
	if header.Alg != "HS256" {
		return ErrUnsupportedAlgorithm
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(sig, s.sign(parts[0]+"."+parts[1])) {
		return ErrInvalidSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrInvalidToken
	}
	if err := json.Unmarshal(payload, claims); err != nil {
		return fmt.Errorf("jwt: unmarshal claims: %w", err)
	}

	if v, ok := claims.(Claims); ok {
		return v.Valid()
	}
	return nil
}

func (s *Service) sign(data string) []byte {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
