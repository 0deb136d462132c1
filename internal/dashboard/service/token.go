package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/batterydash/internal/dashboard/domain"
	"github.com/aussiebroadwan/batterydash/pkg/jwtx"
)

// TokenTTL is the lifetime of every session token.
const TokenTTL = jwtx.DefaultSessionTTL

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(ctx context.Context, u domain.User) (IssuedToken, error)
}

// TokenService signs HS256 session tokens carrying the user's email, display
// name and role.
type TokenService struct {
	Signer   jwtx.Signer
	Issuer   string
	Audience []string
	TTL      time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) Issue(ctx context.Context, u domain.User) (IssuedToken, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = TokenTTL
	}

	claims := jwtx.NewSessionClaims(u.Email, u.DisplayName, u.Role, ttl, s.Issuer, s.Audience, now)
	tok, err := s.Signer.Sign(claims)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign session token: %w", err)
	}
	return IssuedToken{Token: tok, ExpiresAt: claims.ExpiresAt.Time}, nil
}
