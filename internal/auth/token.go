package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySlack is how long before the recorded expiry a cached token is
// already considered stale, so calls don't go out with a token about to
// die mid-flight.
const expirySlack = time.Minute

// RefreshFunc obtains a brand-new bearer token from the identity
// provider.
type RefreshFunc func(ctx context.Context) (string, error)

// Static returns a token source that always hands out the same token.
// Force-refresh requests are ignored; there is nothing to refresh.
func Static(token string) *StaticSource {
	return &StaticSource{token: token}
}

// StaticSource serves a fixed token.
type StaticSource struct {
	token string
}

func (s *StaticSource) Token(ctx context.Context, forceRefresh bool) (string, error) {
	return s.token, nil
}

// NewRefreshing returns a token source that caches the token obtained
// from refresh. When the token is a JWT, its exp claim bounds the cache
// lifetime; opaque tokens are cached until a forced refresh.
func NewRefreshing(refresh RefreshFunc) *RefreshingSource {
	return &RefreshingSource{refresh: refresh}
}

// RefreshingSource caches tokens from a RefreshFunc.
type RefreshingSource struct {
	refresh RefreshFunc

	mu        sync.Mutex
	token     string
	expiresAt time.Time // zero when the token carries no exp claim
}

func (r *RefreshingSource) Token(ctx context.Context, forceRefresh bool) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !forceRefresh && r.token != "" && !r.stale() {
		return r.token, nil
	}

	token, err := r.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	r.token = token
	r.expiresAt = jwtExpiry(token)
	return token, nil
}

// Seed primes the cache with a previously issued token, typically one
// loaded from the config file.
func (r *RefreshingSource) Seed(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
	r.expiresAt = jwtExpiry(token)
}

func (r *RefreshingSource) stale() bool {
	return !r.expiresAt.IsZero() && time.Until(r.expiresAt) < expirySlack
}

// jwtExpiry extracts the exp claim without verifying the signature.
// The client only needs the lifetime; the server validates authenticity.
func jwtExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
