// Package server wires the reference backend together: repositories, blob
// store, services, the gRPC endpoint and the ops HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/dmitrijs2005/cloudsphere/internal/objstore"
	"github.com/dmitrijs2005/cloudsphere/internal/server/auth"
	"github.com/dmitrijs2005/cloudsphere/internal/server/blobstore"
	"github.com/dmitrijs2005/cloudsphere/internal/server/config"
	"github.com/dmitrijs2005/cloudsphere/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudsphere/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/cloudsphere/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	blobs    blobstore.Store
	memBlobs *blobstore.MemoryStore
	accounts *services.AccountService
	files    *services.FileService
	verifier *auth.Verifier
}

var (
	openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
	newJWKSVerifier = auth.NewJWKSVerifier
)

// NewApp builds the application from c. ctx bounds background work such as
// JWKS refreshes.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	var err error
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, keeping data in memory")
		app.repos = repomanager.NewMemoryRepositoryManager()
	} else {
		app.repos, err = openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	if err := app.initBlobStore(ctx); err != nil {
		_ = app.repos.Close()
		return nil, err
	}

	if c.JWKSURL != "" {
		app.verifier, err = newJWKSVerifier(ctx, c.JWKSURL, c.JWKSRefresh)
		if err != nil {
			_ = app.repos.Close()
			return nil, err
		}
	} else {
		app.verifier = auth.NewHMACVerifier([]byte(c.SecretKey))
	}

	policy := services.Policy{
		Admins:              c.Admins,
		DefaultStorageLimit: int64(c.DefaultStorageLimit),
		MaxSingleFileBytes:  int64(c.MaxSingleFileBytes),
	}
	app.accounts = services.NewAccountService(app.repos, policy, logger)
	app.files = services.NewFileService(app.repos, app.blobs, app.accounts, policy, logger)

	return app, nil
}

func (app *App) initBlobStore(ctx context.Context) error {
	c := app.config
	switch c.BlobStore {
	case config.BlobStoreS3:
		client, err := objstore.NewClient(ctx, objstore.Settings{
			Region:    c.S3Region,
			Endpoint:  c.S3BaseEndpoint,
			AccessKey: c.S3RootUser,
			SecretKey: c.S3RootPassword,
			Bucket:    c.S3Bucket,
			PathStyle: true,
		})
		if err != nil {
			return fmt.Errorf("s3 init error: %w", err)
		}
		app.blobs = blobstore.NewS3Store(client, c.S3Bucket, c.UploadURLValidity, c.DownloadURLValidity)
	case config.BlobStoreMemory, "":
		app.memBlobs = blobstore.NewMemoryStore(c.PublicBaseURL, int64(c.MaxSingleFileBytes),
			c.UploadURLValidity, c.DownloadURLValidity, app.logger)
		app.blobs = app.memBlobs
	default:
		return fmt.Errorf("unknown blob store %q", c.BlobStore)
	}
	return nil
}

// opsRouter serves health, metrics and, with the memory blob store, the
// presigned blob URLs.
func (app *App) opsRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if app.memBlobs != nil {
		r.Handle(blobstore.BlobPathPrefix+"/*", app.memBlobs.Handler())
	}
	return r
}

func (app *App) runOpsServer(ctx context.Context) error {
	srv := &http.Server{
		Addr:              app.config.OpsAddr,
		Handler:           app.opsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting ops server", "address", app.config.OpsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves gRPC and the ops listener until ctx is cancelled or either
// server fails.
func (app *App) Run(ctx context.Context) error {

	app.logger.Info(ctx, "Starting app...")
	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.files, app.verifier)
		return s.Run(ctx)
	})
	g.Go(func() error {
		return app.runOpsServer(ctx)
	})

	return g.Wait()
}
