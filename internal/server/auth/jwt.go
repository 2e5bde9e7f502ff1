// Package auth verifies the identity tokens presented to the backend and
// mints development tokens. The principal is the token's sub claim.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs an HS256 token for principal.
func GenerateToken(principal string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   principal,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verifier extracts the principal from a signed token.
type Verifier struct {
	keyfunc jwt.Keyfunc
	methods []string
}

// NewHMACVerifier accepts HS256 tokens signed with secretKey.
func NewHMACVerifier(secretKey []byte) *Verifier {
	return &Verifier{
		keyfunc: func(*jwt.Token) (any, error) { return secretKey, nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

// NewJWKSVerifier accepts tokens signed by any key published at url. The key
// set is fetched once at start and refreshed every refresh until ctx is
// done; a zero refresh uses the keyfunc defaults.
func NewJWKSVerifier(ctx context.Context, url string, refresh time.Duration) (*Verifier, error) {
	if refresh <= 0 {
		k, err := keyfunc.NewDefaultCtx(ctx, []string{url})
		if err != nil {
			return nil, fmt.Errorf("jwks: %w", err)
		}
		return &Verifier{keyfunc: k.Keyfunc}, nil
	}

	storage, err := jwkset.NewStorageFromHTTP(url, jwkset.HTTPClientStorageOptions{
		Ctx:             ctx,
		RefreshInterval: refresh,
	})
	if err != nil {
		return nil, fmt.Errorf("jwks storage: %w", err)
	}
	k, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("jwks keyfunc: %w", err)
	}
	return &Verifier{keyfunc: k.Keyfunc}, nil
}

// Principal validates tokenString and returns its subject.
func (v *Verifier) Principal(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	var opts []jwt.ParserOption
	if len(v.methods) > 0 {
		opts = append(opts, jwt.WithValidMethods(v.methods))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
