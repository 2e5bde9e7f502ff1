package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/client/actor"
	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/blob"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/client/config"
	"github.com/dmitrijs2005/cloudsphere/internal/client/identity"
	"github.com/dmitrijs2005/cloudsphere/internal/client/prefs"
	"github.com/dmitrijs2005/cloudsphere/internal/client/services"
	"github.com/dmitrijs2005/cloudsphere/internal/client/session"
	"github.com/dmitrijs2005/cloudsphere/internal/client/upload"
	"github.com/dmitrijs2005/cloudsphere/internal/filex"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/dmitrijs2005/cloudsphere/internal/objstore"
	"github.com/golang-jwt/jwt/v5"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	lifecycle *identity.Lifecycle
	factory   *actor.Factory
	manager   *session.Manager
	prefs     *prefs.Preferences
	files     services.FileService
	admin     services.AdminService
	limits    upload.Limits
	download  blob.Downloader

	reader  *bufio.Reader
	out     io.Writer
	closers []func() error

	mu   sync.Mutex
	Mode Mode
}

// deps are the collaborators NewApp builds from config; tests pass fakes.
type deps struct {
	provider  identity.Provider
	dial      actor.Dialer
	store      prefs.Store
	transport  blob.Transport
	downloader blob.Downloader
}

func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}
	db, err := prefs.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	store := prefs.NewSQLiteStore(db)

	var kf jwt.Keyfunc
	if c.JWKSURL != "" {
		kf, err = identity.NewJWKSKeyfunc(ctx, c.JWKSURL, c.JWKSRefresh, l)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	transport, err := newTransport(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reader := bufio.NewReader(os.Stdin)
	a := assemble(c, deps{
		provider:   identity.NewJWTProvider(tokenSource(c, reader, os.Stdout), store, kf),
		dial:       actor.GRPCDialer(c.ServerEndpointAddr),
		store:      store,
		transport:  transport,
		downloader: blob.NewHTTPTransport(&http.Client{}),
	}, reader, os.Stdout, l)
	a.closers = append(a.closers, db.Close)
	return a, nil
}

func assemble(c *config.Config, d deps, reader *bufio.Reader, out io.Writer, l logging.Logger) *App {
	lc := identity.NewLifecycle(d.provider, l)
	factory := actor.NewFactory(d.dial, l)
	qc := cache.New(c.CacheSize, c.CacheTTL, factory.Ready, l)
	p := prefs.NewPreferences(d.store)
	limits := upload.Limits{
		MaxSingleFileBytes:       c.MaxSingleFileBytes,
		DefaultStorageLimitBytes: c.DefaultStorageLimit,
	}
	co := upload.NewCoordinator(factory, d.transport, qc, limits, l)

	return &App{
		config:    c,
		logger:    l.With("module", "cli"),
		lifecycle: lc,
		factory:   factory,
		manager:   session.NewManager(lc, factory, qc, p, l),
		prefs:     p,
		files:     services.NewFileService(factory, qc, co, l),
		admin:     services.NewAdminService(factory, qc, l),
		limits:    co.Limits(),
		download:  d.downloader,
		reader:    reader,
		out:       out,
	}
}

func newTransport(ctx context.Context, c *config.Config) (blob.Transport, error) {
	switch c.BlobTransport {
	case "", config.BlobTransportPresigned:
		return blob.NewHTTPTransport(&http.Client{}), nil
	case config.BlobTransportS3:
		client, err := objstore.NewClient(ctx, objstore.Settings{
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			Bucket:    c.S3.Bucket,
			PathStyle: c.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return blob.NewS3Transport(client, c.S3.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown blob transport %q", c.BlobTransport)
	}
}

// tokenSource reads the identity token from the configured file, or asks
// for it.
func tokenSource(c *config.Config, reader *bufio.Reader, w io.Writer) identity.TokenSource {
	return identity.TokenSourceFunc(func(ctx context.Context) (string, error) {
		if c.TokenFile != "" {
			b, err := os.ReadFile(c.TokenFile)
			if err != nil {
				return "", fmt.Errorf("read token file: %w", err)
			}
			return strings.TrimSpace(string(b)), nil
		}
		return GetSecret(reader, "Paste your identity token", w)
	})
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run restores the previous session, if any, and runs the REPL until the
// user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to CloudSphere CLI (type 'help' for commands)")

	if err := a.manager.Start(ctx); err != nil {
		printlnFn("error:", describe(err))
	}
	defer a.manager.Stop()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the actor and local resources.
func (a *App) Close() {
	a.factory.Reset(context.Background())
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

// StartOnlineStatusWatcher pings the backend every interval while an actor
// is ready and tracks whether it answers.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	act, err := a.factory.Actor()
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := act.Ping(ctx); err != nil {
		if errors.Is(err, backend.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			a.setMode(ModeOffline)
		}
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) isLoggedIn() bool {
	_, err := a.manager.Session()
	return err == nil
}

func (a *App) isAdmin() bool {
	s, err := a.manager.Session()
	return err == nil && s.IsAdmin()
}

func (a *App) getStatus() string {
	var parts []string
	if s, err := a.manager.Session(); err == nil {
		role, _ := s.Roles.Cached()
		parts = append(parts, s.Principal(), string(role))
	} else if st := a.manager.State(); st != session.StateSignedOut {
		parts = append(parts, st.String())
	}
	if m := a.mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, " "))
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
