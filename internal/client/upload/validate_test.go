package upload

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowedType(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want bool
	}{
		{name: "report.pdf", mime: "application/pdf", want: true},
		{name: "blob", mime: "image/png", want: true},
		{name: "blob", mime: "video/mp4", want: true},
		{name: "blob", mime: "application/msword", want: true},
		{name: "blob", mime: "IMAGE/JPEG; charset=binary", want: true},
		{name: "Photo.JPG", mime: "", want: true},
		{name: "notes.docx", mime: "application/octet-stream", want: true},
		{name: "clip.mp4", mime: "", want: true},
		{name: "archive.zip", mime: "application/zip", want: false},
		{name: "script.sh", mime: "text/plain", want: false},
		{name: "pdf", mime: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name+"|"+tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAllowedType(tt.name, tt.mime))
		})
	}
}

func TestValidate_Order(t *testing.T) {
	l := Limits{MaxSingleFileBytes: 100, DefaultStorageLimitBytes: 1000}
	full := &backend.UserProfile{UsedStorageBytes: 1000}

	// type is checked before size and quota
	err := l.Validate("a.zip", "application/zip", 500, full)
	require.ErrorIs(t, err, ErrInvalidFileType)

	// size is checked before quota
	err = l.Validate("a.pdf", "application/pdf", 500, full)
	require.ErrorIs(t, err, ErrFileTooLarge)

	err = l.Validate("a.pdf", "application/pdf", 50, full)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	require.NoError(t, l.Validate("a.pdf", "application/pdf", 50, nil), "quota is skipped without a profile")
}

func TestValidate_QuotaScenario(t *testing.T) {
	const limit = uint64(15 << 30)
	p := &backend.UserProfile{StorageLimitBytes: limit, UsedStorageBytes: limit - 100<<20}

	err := DefaultLimits().Validate("movie.mp4", "video/mp4", 200<<20, p)
	require.ErrorIs(t, err, backend.ErrQuotaExceeded)

	var qe *QuotaError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, uint64(100<<20), qe.Remaining)
	assert.Equal(t, limit, qe.Limit)
	assert.Contains(t, err.Error(), "100.00 MB remaining")

	require.NoError(t, DefaultLimits().Validate("movie.mp4", "video/mp4", 100<<20, p), "an exact fit is allowed")
}

func TestValidate_DefaultLimitWhenProfileHasNone(t *testing.T) {
	p := &backend.UserProfile{UsedStorageBytes: DefaultStorageLimitBytes - 10}

	require.NoError(t, DefaultLimits().Validate("a.png", "image/png", 10, p))
	require.ErrorIs(t, DefaultLimits().Validate("a.png", "image/png", 11, p), ErrQuotaExceeded)
}

func TestValidate_OverQuotaProfile(t *testing.T) {
	p := &backend.UserProfile{StorageLimitBytes: 10, UsedStorageBytes: 20}

	err := DefaultLimits().Validate("a.png", "image/png", 1, p)
	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Zero(t, qe.Remaining)
}

func TestValidate_MaxSingleFile(t *testing.T) {
	require.NoError(t, Limits{}.Validate("a.mp4", "video/mp4", DefaultMaxSingleFileBytes, nil))
	require.ErrorIs(t, Limits{}.Validate("a.mp4", "video/mp4", DefaultMaxSingleFileBytes+1, nil), ErrFileTooLarge)
}

func TestStorageFull(t *testing.T) {
	assert.False(t, StorageFull(nil))
	assert.False(t, StorageFull(&backend.UserProfile{StorageLimitBytes: 10, UsedStorageBytes: 9}))
	assert.True(t, StorageFull(&backend.UserProfile{StorageLimitBytes: 10, UsedStorageBytes: 10}))
	assert.True(t, StorageFull(&backend.UserProfile{UsedStorageBytes: DefaultStorageLimitBytes}))
}

func TestRemaining(t *testing.T) {
	l := DefaultLimits()
	assert.Equal(t, uint64(4), l.Remaining(&backend.UserProfile{StorageLimitBytes: 10, UsedStorageBytes: 6}))
	assert.Zero(t, l.Remaining(&backend.UserProfile{StorageLimitBytes: 10, UsedStorageBytes: 60}))
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{10 << 20, "10.00 MB"},
		{15 << 30, "15.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in))
	}
}
