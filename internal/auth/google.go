package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
)

const googleIssuer = "https://accounts.google.com"

// GoogleIdentity is the subset of Google ID token claims we use.
type GoogleIdentity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleVerifier verifies Google ID tokens against a client id. Provider
// discovery happens on first use so the server can boot while Google is
// unreachable.
type GoogleVerifier struct {
	clientID string
	issuer   string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier creates a verifier for clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, issuer: googleIssuer}
}

// Verify checks the token signature, audience and expiry and returns the identity.
func (g *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (GoogleIdentity, error) {
	if g.clientID == "" {
		return GoogleIdentity{}, errors.New("google sign-in is not configured")
	}
	v, err := g.idTokenVerifier(ctx)
	if err != nil {
		return GoogleIdentity{}, err
	}

	token, err := v.Verify(ctx, rawIDToken)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var identity GoogleIdentity
	if err := token.Claims(&identity); err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identity, nil
}

func (g *GoogleVerifier) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.verifier != nil {
		return g.verifier, nil
	}
	provider, err := oidc.NewProvider(ctx, g.issuer)
	if err != nil {
		slog.Error("failed to query OIDC provider", "issuer", g.issuer, "error", err)
		return nil, fmt.Errorf("failed to query OIDC provider: %w", err)
	}
	g.verifier = provider.Verifier(&oidc.Config{ClientID: g.clientID})
	return g.verifier, nil
}
