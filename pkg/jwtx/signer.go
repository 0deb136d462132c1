package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHMACKeySize is the smallest accepted HS256 secret, matching the hash size.
const MinHMACKeySize = 32

var ErrWeakKey = fmt.Errorf("jwtx: HMAC key must be at least %d bytes", MinHMACKeySize)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// HS256Signer signs tokens with a shared symmetric secret.
type HS256Signer struct {
	key []byte
}

// NewSignerHS256 copies key so later mutation by the caller has no effect.
func NewSignerHS256(key []byte) (*HS256Signer, error) {
	s := &HS256Signer{key: append([]byte(nil), key...)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Validate does a quick sanity check on the key material.
func (s *HS256Signer) Validate() error {
	if len(s.key) == 0 {
		return errors.New("jwtx: empty HMAC key")
	}
	if len(s.key) < MinHMACKeySize {
		return ErrWeakKey
	}
	return nil
}
