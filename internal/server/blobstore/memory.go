package blobstore

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
)

// BlobPathPrefix is where Handler is expected to be mounted.
const BlobPathPrefix = "/blobs"

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in process memory and serves them over HTTP
// through Handler. URLs are signed with a random per-process key.
type MemoryStore struct {
	mu          sync.RWMutex
	objects     map[string]memoryObject
	baseURL     string
	secret      []byte
	maxSize     int64
	putValidity time.Duration
	getValidity time.Duration
	now         func() time.Time
	logger      logging.Logger
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store whose URLs point at baseURL + BlobPathPrefix.
// Uploads larger than maxSize are refused; zero means unlimited.
func NewMemoryStore(baseURL string, maxSize int64, putValidity, getValidity time.Duration, l logging.Logger) *MemoryStore {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	return &MemoryStore{
		objects:     make(map[string]memoryObject),
		baseURL:     strings.TrimRight(baseURL, "/"),
		secret:      secret,
		maxSize:     maxSize,
		putValidity: putValidity,
		getValidity: getValidity,
		now:         time.Now,
		logger:      l.With("module", "blobstore"),
	}
}

func (s *MemoryStore) sign(method, key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(method + "\n" + key + "\n" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *MemoryStore) presign(method, key string, validity time.Duration) (string, time.Time) {
	expires := s.now().Add(validity)
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires.Unix(), 10))
	q.Set("sig", s.sign(method, key, expires.Unix()))
	return s.baseURL + BlobPathPrefix + "/" + key + "?" + q.Encode(), expires
}

func (s *MemoryStore) verify(method, key string, q url.Values) bool {
	expires, err := strconv.ParseInt(q.Get("expires"), 10, 64)
	if err != nil || s.now().Unix() > expires {
		return false
	}
	want := s.sign(method, key, expires)
	return hmac.Equal([]byte(want), []byte(q.Get("sig")))
}

func (s *MemoryStore) PresignPut(_ context.Context, key, _ string, _ int64) (string, time.Time, error) {
	u, exp := s.presign(http.MethodPut, key, s.putValidity)
	return u, exp, nil
}

func (s *MemoryStore) PresignGet(_ context.Context, key string) (string, error) {
	u, _ := s.presign(http.MethodGet, key, s.getValidity)
	return u, nil
}

func (s *MemoryStore) Stat(_ context.Context, key string) (*ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &ObjectInfo{Size: int64(len(o.data)), ContentType: o.contentType}, nil
}

func (s *MemoryStore) Head(_ context.Context, key string, n int64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n = min(n, int64(len(o.data)))
	return bytes.Clone(o.data[:n]), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Put stores data under key directly.
func (s *MemoryStore) Put(key string, data []byte, contentType string) {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: bytes.Clone(data), contentType: contentType}
}

// Handler serves presigned PUT and GET requests under BlobPathPrefix.
func (s *MemoryStore) Handler() http.Handler {
	r := chi.NewRouter()
	r.Put(BlobPathPrefix+"/*", s.handlePut)
	r.Get(BlobPathPrefix+"/*", s.handleGet)
	return r
}

func (s *MemoryStore) handlePut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || !s.verify(http.MethodPut, key, r.URL.Query()) {
		http.Error(w, "invalid or expired signature", http.StatusForbidden)
		return
	}

	body := r.Body
	if s.maxSize > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxSize)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, "object too large", http.StatusRequestEntityTooLarge)
		return
	}

	s.Put(key, data, r.Header.Get("Content-Type"))
	s.logger.Debug(r.Context(), "blob stored", "key", key, "size", len(data))
	w.WriteHeader(http.StatusOK)
}

func (s *MemoryStore) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || !s.verify(http.MethodGet, key, r.URL.Query()) {
		http.Error(w, "invalid or expired signature", http.StatusForbidden)
		return
	}

	s.mu.RLock()
	o, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", o.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(o.data)))
	_, _ = w.Write(o.data)
}
