package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/backend/backendtest"
	"github.com/dmitrijs2005/cloudsphere/internal/client/blob"
	"github.com/dmitrijs2005/cloudsphere/internal/client/config"
	"github.com/dmitrijs2005/cloudsphere/internal/client/identity"
	"github.com/dmitrijs2005/cloudsphere/internal/client/prefs"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct{}

func (fakeProvider) Restore(context.Context) (*identity.Identity, error) { return nil, nil }
func (fakeProvider) Authenticate(context.Context) (*identity.Identity, error) {
	return &identity.Identity{Principal: "p1", Token: "t"}, nil
}
func (fakeProvider) Forget(context.Context) error { return nil }

type nopTransport struct{}

func (nopTransport) Put(context.Context, blob.Destination, *blob.Ref) error { return nil }

type testApp struct {
	*App
	out   *bytes.Buffer
	store *prefs.MemoryStore
}

func newTestApp(t *testing.T, fake *backendtest.Fake, input ...string) *testApp {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	out := &bytes.Buffer{}
	store := prefs.NewMemoryStore()
	reader := bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n"))
	a := assemble(cfg, deps{
		provider: fakeProvider{},
		dial: func(context.Context, *identity.Identity) (backend.Backend, error) {
			return fake, nil
		},
		store:      store,
		transport:  nopTransport{},
		downloader: blob.NewHTTPTransport(nil),
	}, reader, out, logging.Nop())

	require.NoError(t, a.manager.Start(context.Background()))
	t.Cleanup(a.Close)
	return &testApp{App: a, out: out, store: store}
}

func TestApp_LoginRemembersEmail(t *testing.T) {
	fake := &backendtest.Fake{}
	a := newTestApp(t, fake, "a@b.co", "y")
	ctx := context.Background()

	assert.False(t, a.isLoggedIn())
	require.NoError(t, a.Login(ctx))
	assert.True(t, a.isLoggedIn())
	assert.False(t, a.isAdmin())
	assert.Contains(t, a.out.String(), "Signed in as p1 (user)")
	assert.Contains(t, a.getStatus(), "p1 user")

	email, err := a.prefs.PrefillEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", email)
	assert.Equal(t, 1, fake.Calls("RegisterUser"))

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	assert.True(t, fake.Closed())
}

func TestApp_LoginNotRegisteredSuggestsSignUp(t *testing.T) {
	fake := &backendtest.Fake{
		RegisterUserFn: func(context.Context, string) (*backend.UserProfile, error) {
			return nil, backend.ErrNotRegistered
		},
	}
	a := newTestApp(t, fake, "a@b.co", "n")

	err := a.Login(context.Background())
	require.ErrorIs(t, err, backend.ErrNotRegistered)
	assert.Contains(t, err.Error(), "signup")
	assert.False(t, a.isLoggedIn())
}

func TestApp_AdminCommands(t *testing.T) {
	fake := &backendtest.Fake{
		GetCallerUserRoleFn: func(context.Context) (backend.Role, error) { return backend.RoleAdmin, nil },
		GetAllUsersFn: func(context.Context) ([]*backend.UserRecord, error) {
			return []*backend.UserRecord{{UserProfile: backend.UserProfile{Principal: "p2", Email: "x@y.co", Role: backend.RoleUser}, FileCount: 3}}, nil
		},
		GetTotalStorageStatsFn: func(context.Context) (*backend.StorageStats, error) {
			return &backend.StorageStats{TotalUsers: 2, TotalFiles: 5, TotalStorageUsed: 10 << 20}, nil
		},
	}
	a := newTestApp(t, fake, "a@b.co", "n")
	ctx := context.Background()
	require.NoError(t, a.Login(ctx))
	assert.True(t, a.isAdmin())

	require.NoError(t, a.Users(ctx))
	require.NoError(t, a.Stats(ctx))
	require.NoError(t, a.Block(ctx, "p2", true))
	require.NoError(t, a.AdminDelete(ctx, "f1"))

	out := a.out.String()
	assert.Contains(t, out, "x@y.co")
	assert.Contains(t, out, "Files:   5")
	assert.Contains(t, out, "10.00 MB")
	assert.Contains(t, out, "User p2 blocked")
	assert.Equal(t, 1, fake.Calls("AdminDeleteFile"))
}

func TestApp_UploadAndList(t *testing.T) {
	uploaded := false
	fake := &backendtest.Fake{
		GetCallerUserProfileFn: func(context.Context) (*backend.UserProfile, error) {
			return &backend.UserProfile{Principal: "p1", Email: "a@b.co", Role: backend.RoleUser, StorageLimitBytes: 15 << 30}, nil
		},
		UploadFileFn: func(_ context.Context, name string, _ uint64, mime, _ string) (string, error) {
			uploaded = mime == "application/pdf"
			return "f1", nil
		},
		ListFilesFn: func(context.Context) ([]*backend.FileRecord, error) {
			return []*backend.FileRecord{{ID: "f1", Name: "report.pdf", MimeType: "application/pdf", Size: 2048, UploadDate: time.Now()}}, nil
		},
	}
	a := newTestApp(t, fake, "a@b.co", "n")
	ctx := context.Background()
	require.NoError(t, a.Login(ctx))

	p := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4\nhello\n"), 0o600))

	require.NoError(t, a.Upload(ctx, p))
	assert.True(t, uploaded)
	assert.Contains(t, a.out.String(), "100%")
	assert.Contains(t, a.out.String(), `"report.pdf" uploaded successfully`)

	require.NoError(t, a.List(ctx))
	assert.Contains(t, a.out.String(), "2.0 KB")

	require.NoError(t, a.WhoAmI(ctx))
	assert.Contains(t, a.out.String(), "Email:     a@b.co")
}

func TestApp_Download(t *testing.T) {
	body := []byte("%PDF-1.7\nquarterly numbers\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blobs/f1" {
			http.Error(w, "invalid or expired signature", http.StatusForbidden)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	files := map[string]*backend.FileRecord{
		"f1":      {ID: "f1", Name: "../../report.pdf", Size: uint64(len(body)), DownloadURL: srv.URL + "/blobs/f1"},
		"short":   {ID: "short", Name: "short.pdf", Size: 999, DownloadURL: srv.URL + "/blobs/f1"},
		"expired": {ID: "expired", Name: "old.pdf", Size: 1, DownloadURL: srv.URL + "/blobs/old"},
		"nolink":  {ID: "nolink", Name: "x.pdf", Size: 1},
	}
	fake := &backendtest.Fake{
		GetFileFn: func(_ context.Context, id string) (*backend.FileRecord, error) {
			f, ok := files[id]
			if !ok {
				return nil, backend.ErrNotFound
			}
			return f, nil
		},
	}
	a := newTestApp(t, fake, "a@b.co", "n")
	ctx := context.Background()
	require.NoError(t, a.Login(ctx))

	dir := t.TempDir()
	require.NoError(t, a.Download(ctx, "f1", dir))

	got, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, body, got)
	assert.Contains(t, a.out.String(), `"../../report.pdf" saved to `+filepath.Join(dir, "report.pdf"))

	err = a.Download(ctx, "short", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download incomplete")

	err = a.Download(ctx, "expired", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	require.Error(t, a.Download(ctx, "nolink", dir))
	require.ErrorIs(t, a.Download(ctx, "ghost", dir), backend.ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "failed downloads leave nothing behind")
}

func TestApp_DownloadDefaultDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("abc"))
	}))
	defer srv.Close()

	fake := &backendtest.Fake{
		GetFileFn: func(context.Context, string) (*backend.FileRecord, error) {
			return &backend.FileRecord{ID: "f1", Name: "a.png", Size: 3, DownloadURL: srv.URL}, nil
		},
	}
	a := newTestApp(t, fake, "a@b.co", "n")
	ctx := context.Background()
	require.NoError(t, a.Login(ctx))

	wd := t.TempDir()
	t.Chdir(wd)
	require.NoError(t, a.Download(ctx, "f1", ""))
	assert.FileExists(t, filepath.Join(wd, "download", "a.png"))
}

func TestApp_UploadRejectedType(t *testing.T) {
	fake := &backendtest.Fake{
		GetCallerUserProfileFn: func(context.Context) (*backend.UserProfile, error) {
			return &backend.UserProfile{Principal: "p1"}, nil
		},
	}
	a := newTestApp(t, fake, "a@b.co", "n")
	require.NoError(t, a.Login(context.Background()))

	p := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(p, []byte("plain text"), 0o600))

	err := a.Upload(context.Background(), p)
	require.Error(t, err)
	assert.Zero(t, fake.Calls("CreateUpload"))
}

func TestApp_CommandsBeforeLogin(t *testing.T) {
	fake := &backendtest.Fake{}
	a := newTestApp(t, fake)

	err := a.List(context.Background())
	require.ErrorIs(t, err, backend.ErrActorNotReady)
	assert.Equal(t, "not signed in; use 'login' first", describe(err))
	assert.Zero(t, fake.TotalCalls())
}

func TestApp_CheckOnline(t *testing.T) {
	fake := &backendtest.Fake{}
	a := newTestApp(t, fake, "a@b.co", "n")

	a.checkOnline(context.Background())
	assert.Equal(t, Mode(""), a.mode(), "no actor, no admin check")

	require.NoError(t, a.Login(context.Background()))
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, a.mode())

	fake.PingFn = func(context.Context) error { return backend.ErrUnavailable }
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, a.mode())
}

func TestTokenSource_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(p, []byte("abc.def.ghi\n"), 0o600))

	src := tokenSource(&config.Config{TokenFile: p}, rdr(""), &bytes.Buffer{})
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)
}

func TestNewTransport(t *testing.T) {
	tr, err := newTransport(context.Background(), &config.Config{BlobTransport: config.BlobTransportPresigned})
	require.NoError(t, err)
	assert.IsType(t, &blob.HTTPTransport{}, tr)

	_, err = newTransport(context.Background(), &config.Config{BlobTransport: "ftp"})
	require.Error(t, err)
}
