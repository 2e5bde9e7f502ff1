// Package upload validates local files against type, size and quota limits
// and drives them through the backend's two-step upload: bytes to the blob
// store first, then the file record.
package upload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/blob"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudsphere_client_uploads_total",
		Help: "Uploads by result.",
	}, []string{"result"})
	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudsphere_client_upload_bytes_total",
		Help: "Bytes of confirmed uploads.",
	})
	uploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cloudsphere_client_upload_duration_seconds",
		Help:    "Time from the first byte to the confirmed file record.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

// ProgressFunc receives upload progress in percent.
type ProgressFunc func(percent int)

// ActorSource hands out the session's backend.
type ActorSource interface {
	Actor() (backend.Backend, error)
}

type Coordinator struct {
	actors    ActorSource
	transport blob.Transport
	cache     *cache.Cache
	limits    Limits
	logger    logging.Logger
}

func NewCoordinator(actors ActorSource, t blob.Transport, c *cache.Cache, limits Limits, l logging.Logger) *Coordinator {
	return &Coordinator{
		actors:    actors,
		transport: t,
		cache:     c,
		limits:    limits.withDefaults(),
		logger:    l.With("module", "upload"),
	}
}

func (c *Coordinator) Limits() Limits {
	return c.limits
}

// Validate runs the local checks without touching the network.
func (c *Coordinator) Validate(t *Task, p *backend.UserProfile) error {
	return c.limits.Validate(t.Name, t.MimeType, t.Size, p)
}

// Upload validates t and, if it passes, uploads it and returns the new file
// ID. A nil profile skips the quota pre-check.
//
// Once validation passes the upload runs to completion even if ctx is done:
// the caller gets ctx.Err() but the transfer, the file record and the cache
// invalidation still happen.
func (c *Coordinator) Upload(ctx context.Context, t *Task, p *backend.UserProfile, fn ProgressFunc) (string, error) {
	if err := c.Validate(t, p); err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		c.logger.Info(ctx, "upload rejected", "file", t.Name, "error", err)
		return "", err
	}

	act, err := c.actors.Actor()
	if err != nil {
		return "", err
	}

	r := &reporter{task: t, fn: fn}
	r.start()

	return common.Detach(ctx, func(ctx context.Context) (string, error) {
		id, err := c.run(ctx, act, t, r)
		if err != nil {
			r.fail()
			uploadsTotal.WithLabelValues("failed").Inc()
			c.logger.Warn(ctx, "upload failed", "file", t.Name, "error", err)
			return "", err
		}

		c.cache.Apply(ctx, cache.MutationUpload)
		if p != nil && p.Role.IsAdmin() {
			c.cache.Invalidate(cache.KeyAllFiles, cache.KeyStorageStats)
		}
		r.done()

		uploadsTotal.WithLabelValues("ok").Inc()
		uploadBytesTotal.Add(float64(t.Size))
		c.logger.Info(ctx, "file uploaded", "file", t.Name, "id", id, "size", t.Size)
		return id, nil
	})
}

func (c *Coordinator) run(ctx context.Context, act backend.Backend, t *Task, r *reporter) (string, error) {
	start := time.Now()

	data, err := t.payload()
	if err != nil {
		return "", err
	}

	target, err := act.CreateUpload(ctx, t.Name, t.Size, t.MimeType)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	ref := blob.FromBytes(data).WithUploadProgress(func(sent, total int64) {
		if total > 0 {
			r.transfer(int(sent * 99 / total))
		}
	})
	dst := blob.Destination{Key: target.BlobRef, URL: target.URL, ContentType: t.MimeType}
	if err := c.transport.Put(ctx, dst, ref); err != nil {
		return "", fmt.Errorf("transfer: %w", err)
	}

	id, err := act.UploadFile(ctx, t.Name, t.Size, t.MimeType, target.BlobRef)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	uploadDuration.Observe(time.Since(start).Seconds())
	return id, nil
}

// reporter serialises progress callbacks. Reported values never decrease;
// after done or fail nothing more is reported.
type reporter struct {
	mu     sync.Mutex
	task   *Task
	fn     ProgressFunc
	closed bool
}

func (r *reporter) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.task.reset()
	r.emit(0)
}

func (r *reporter) transfer(p int) {
	if p > 99 {
		p = 99
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed && r.task.advance(p) {
		r.emit(p)
	}
}

func (r *reporter) done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed && r.task.advance(100) {
		r.emit(100)
	}
	r.closed = true
}

// fail rewinds the task only. The caller learns about the failure from the
// returned error.
func (r *reporter) fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.task.reset()
	r.closed = true
}

func (r *reporter) emit(p int) {
	if r.fn != nil {
		r.fn(p)
	}
}
