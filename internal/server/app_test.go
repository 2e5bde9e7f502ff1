package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/dmitrijs2005/cloudsphere/internal/server/auth"
	"github.com/dmitrijs2005/cloudsphere/internal/server/config"
	"github.com/dmitrijs2005/cloudsphere/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.OpsAddr = "127.0.0.1:0"
	return c
}

func TestNewApp_MemoryDefaults(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(), logging.Nop())
	require.NoError(t, err)

	assert.IsType(t, &repomanager.MemoryRepositoryManager{}, app.repos)
	assert.NotNil(t, app.memBlobs)
	assert.NotNil(t, app.accounts)
	assert.NotNil(t, app.files)

	token, err := auth.GenerateToken("alice", []byte("secretKey"), time.Minute)
	require.NoError(t, err)
	p, err := app.verifier.Principal(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", p)
}

func TestNewApp_UnknownBlobStore(t *testing.T) {
	c := testConfig()
	c.BlobStore = "tape"

	_, err := newApp(context.Background(), c, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tape")
}

func TestNewApp_DatabaseError(t *testing.T) {
	orig := openPostgres
	t.Cleanup(func() { openPostgres = orig })

	openPostgres = func(context.Context, string) (repomanager.RepositoryManager, error) {
		return nil, errors.New("refused")
	}

	c := testConfig()
	c.DatabaseDSN = "postgres://nowhere"

	_, err := newApp(context.Background(), c, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestNewApp_JWKSError(t *testing.T) {
	orig := newJWKSVerifier
	t.Cleanup(func() { newJWKSVerifier = orig })

	var gotURL string
	newJWKSVerifier = func(_ context.Context, url string, _ time.Duration) (*auth.Verifier, error) {
		gotURL = url
		return nil, errors.New("jwks down")
	}

	c := testConfig()
	c.JWKSURL = "https://issuer.example/jwks.json"

	_, err := newApp(context.Background(), c, logging.Nop())
	require.Error(t, err)
	assert.Equal(t, c.JWKSURL, gotURL)
}

func TestOpsRouter(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(), logging.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(app.opsRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// unsigned blob requests are rejected by the mounted blob handler
	resp, err = http.Get(srv.URL + "/blobs/users/x/file")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(), logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
