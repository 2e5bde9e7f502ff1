package upload

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
)

const (
	DefaultMaxSingleFileBytes uint64 = 2 << 30
	DefaultStorageLimitBytes  uint64 = 15 << 30
)

var (
	ErrInvalidFileType = errors.New("invalid file type: only PDF, DOC, DOCX, JPG, PNG and MP4 are allowed")
	ErrFileTooLarge    = errors.New("file too large")
	ErrQuotaExceeded   = backend.ErrQuotaExceeded
)

var AllowedMIMETypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"video/mp4":  {},
}

var allowedName = regexp.MustCompile(`(?i)\.(pdf|docx?|jpe?g|png|mp4)$`)

// QuotaError rejects an upload that does not fit in the remaining quota.
type QuotaError struct {
	Remaining uint64
	Size      uint64
	Limit     uint64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("storage quota exceeded: %s remaining, file is %s", FormatBytes(e.Remaining), FormatBytes(e.Size))
}

func (e *QuotaError) Is(target error) bool {
	return target == backend.ErrQuotaExceeded
}

// Limits are the local pre-checks. The backend enforces its own.
type Limits struct {
	MaxSingleFileBytes       uint64
	DefaultStorageLimitBytes uint64
}

func DefaultLimits() Limits {
	return Limits{
		MaxSingleFileBytes:       DefaultMaxSingleFileBytes,
		DefaultStorageLimitBytes: DefaultStorageLimitBytes,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxSingleFileBytes == 0 {
		l.MaxSingleFileBytes = DefaultMaxSingleFileBytes
	}
	if l.DefaultStorageLimitBytes == 0 {
		l.DefaultStorageLimitBytes = DefaultStorageLimitBytes
	}
	return l
}

// IsAllowedType accepts a file whose MIME type or name extension is one of
// the supported document, image or video formats.
func IsAllowedType(name, mimeType string) bool {
	if _, ok := AllowedMIMETypes[normalizeMIME(mimeType)]; ok {
		return true
	}
	return allowedName.MatchString(name)
}

func normalizeMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.ToLower(strings.TrimSpace(m))
}

// Validate runs the type, size and quota checks in that order. The quota
// check is skipped when p is nil.
func (l Limits) Validate(name, mimeType string, size uint64, p *backend.UserProfile) error {
	l = l.withDefaults()

	if !IsAllowedType(name, mimeType) {
		return ErrInvalidFileType
	}
	if size > l.MaxSingleFileBytes {
		return fmt.Errorf("%w: %s exceeds the %s limit", ErrFileTooLarge, FormatBytes(size), FormatBytes(l.MaxSingleFileBytes))
	}
	if p == nil {
		return nil
	}

	limit := l.StorageLimit(p)
	if p.UsedStorageBytes > limit || size > limit-p.UsedStorageBytes {
		return &QuotaError{Remaining: l.Remaining(p), Size: size, Limit: limit}
	}
	return nil
}

// StorageLimit is the profile's limit, or the default when it has none.
func (l Limits) StorageLimit(p *backend.UserProfile) uint64 {
	if p.StorageLimitBytes > 0 {
		return p.StorageLimitBytes
	}
	return l.withDefaults().DefaultStorageLimitBytes
}

func (l Limits) Remaining(p *backend.UserProfile) uint64 {
	limit := l.StorageLimit(p)
	if p.UsedStorageBytes >= limit {
		return 0
	}
	return limit - p.UsedStorageBytes
}

func (l Limits) StorageFull(p *backend.UserProfile) bool {
	if p == nil {
		return false
	}
	return p.UsedStorageBytes >= l.StorageLimit(p)
}

// StorageFull reports whether p has no room left under the default limits.
func StorageFull(p *backend.UserProfile) bool {
	return DefaultLimits().StorageFull(p)
}

// FormatBytes renders n the way the storage views show it.
func FormatBytes(n uint64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case n < kb:
		return fmt.Sprintf("%d B", n)
	case n < mb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	case n < gb:
		return fmt.Sprintf("%.2f MB", float64(n)/mb)
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/gb)
	}
}
