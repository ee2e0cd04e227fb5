package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"veilchat/internal/domain"
)

// TokenVerifier validates a bearer token and derives the identity it was
// issued to.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// HMACVerifier verifies self-contained bearer tokens of the form
// base64url(identity) "." base64url(HMAC-SHA256(secret, identity)). The login
// service that issues tokens shares the secret; the relay holds no per-user
// state.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier returns a verifier keyed with secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Mint issues a token for identity. Exposed for the development CLI and for
// tests; production issuance lives with the login service.
func (v *HMACVerifier) Mint(identity domain.Identity) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(identity))
	return base64.RawURLEncoding.EncodeToString([]byte(identity)) +
		"." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks the token signature and returns the embedded identity. Every
// failure maps to domain.ErrUnauthorized.
func (v *HMACVerifier) Verify(token string) (domain.Identity, error) {
	if token == "" {
		return "", fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}
	idPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return "", fmt.Errorf("%w: malformed token", domain.ErrUnauthorized)
	}
	idRaw, err := base64.RawURLEncoding.DecodeString(idPart)
	if err != nil {
		return "", fmt.Errorf("%w: malformed token", domain.ErrUnauthorized)
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return "", fmt.Errorf("%w: malformed token", domain.ErrUnauthorized)
	}
	if len(idRaw) == 0 {
		return "", fmt.Errorf("%w: empty identity", domain.ErrUnauthorized)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(idRaw)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", fmt.Errorf("%w: bad signature", domain.ErrUnauthorized)
	}
	return domain.Identity(idRaw), nil
}

// Compile-time assertion that HMACVerifier implements TokenVerifier.
var _ TokenVerifier = (*HMACVerifier)(nil)
