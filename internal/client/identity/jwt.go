package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/dmitrijs2005/cloudsphere/internal/client/prefs"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// TokenSource hands out identity tokens, typically by prompting the user.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// JWTProvider treats identity tokens as JWTs whose sub claim is the
// principal. With a nil keyfunc tokens are decoded without signature checks
// and the backend stays the verifier.
type JWTProvider struct {
	source  TokenSource
	store   prefs.Store
	keyfunc jwt.Keyfunc
	now     func() time.Time
}

var _ Provider = (*JWTProvider)(nil)

func NewJWTProvider(source TokenSource, store prefs.Store, kf jwt.Keyfunc) *JWTProvider {
	return &JWTProvider{source: source, store: store, keyfunc: kf, now: time.Now}
}

func (p *JWTProvider) Restore(ctx context.Context) (*Identity, error) {
	token, ok, err := p.store.Get(ctx, prefs.KeyIdentityToken)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, nil
	}

	id, err := p.Parse(token)
	if err != nil {
		// A stale or broken token is not a failure to restore, just no session.
		_ = p.store.Remove(ctx, prefs.KeyIdentityToken)
		return nil, nil
	}
	return id, nil
}

func (p *JWTProvider) Authenticate(ctx context.Context) (*Identity, error) {
	raw, err := p.source.Token(ctx)
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(raw)
	if token == "" {
		return nil, ErrLoginCancelled
	}

	id, err := p.Parse(token)
	if err != nil {
		return nil, err
	}

	if err := p.store.Set(ctx, prefs.KeyIdentityToken, token); err != nil {
		return nil, fmt.Errorf("persist identity: %w", err)
	}
	return id, nil
}

func (p *JWTProvider) Forget(ctx context.Context) error {
	return p.store.Remove(ctx, prefs.KeyIdentityToken)
}

// Parse turns a token into an Identity, rejecting expired tokens and tokens
// without a subject.
func (p *JWTProvider) Parse(token string) (*Identity, error) {
	claims := &jwt.RegisteredClaims{}

	if p.keyfunc != nil {
		_, err := jwt.ParseWithClaims(token, claims, p.keyfunc, jwt.WithTimeFunc(p.now))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if claims.ExpiresAt != nil && !p.now().Before(claims.ExpiresAt.Time) {
			return nil, ErrTokenExpired
		}
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	id := &Identity{Principal: claims.Subject, Token: token}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// NewJWKSKeyfunc verifies tokens against a remote JWKS that is refreshed in
// the background until ctx is done. An unreachable endpoint at start is
// logged rather than fatal.
func NewJWKSKeyfunc(ctx context.Context, url string, refresh time.Duration, l logging.Logger) (jwt.Keyfunc, error) {
	storage, err := jwkset.NewStorageFromHTTP(url, jwkset.HTTPClientStorageOptions{
		Ctx:                       ctx,
		Client:                    &http.Client{Timeout: 10 * time.Second},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(ctx context.Context, err error) {
			l.Error(ctx, "jwks refresh failed", "url", url, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("jwks storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("jwks keyfunc: %w", err)
	}
	return k.Keyfunc, nil
}
