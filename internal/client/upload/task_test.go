package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

func TestNewTask_SniffsMissingType(t *testing.T) {
	task := NewTask("report", "", pdfHeader)
	assert.Equal(t, "application/pdf", task.MimeType)
	assert.Equal(t, uint64(len(pdfHeader)), task.Size)

	task = NewTask("x.bin", "", []byte("just some words"))
	assert.Equal(t, "text/plain", task.MimeType)

	task = NewTask("x", "image/png", []byte("not really"))
	assert.Equal(t, "image/png", task.MimeType, "a given type wins")
}

func TestLoadTask(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(p, pdfHeader, 0o600))

	task, err := LoadTask(p)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", task.Name)
	assert.Equal(t, "application/pdf", task.MimeType)
	assert.Equal(t, uint64(len(pdfHeader)), task.Size)
	assert.Nil(t, task.Bytes, "content is loaded lazily")

	b, err := task.payload()
	require.NoError(t, err)
	assert.Equal(t, pdfHeader, b)
}

func TestLoadTask_Missing(t *testing.T) {
	_, err := LoadTask(filepath.Join(t.TempDir(), "nope.pdf"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTask_FileChanged(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(p, pdfHeader, 0o600))

	task, err := LoadTask(p)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, []byte("%PDF-"), 0o600))

	_, err = task.payload()
	require.Error(t, err)
}

func TestTask_ProgressNeverGoesBack(t *testing.T) {
	task := NewTask("a.pdf", "application/pdf", pdfHeader)

	assert.True(t, task.advance(10))
	assert.False(t, task.advance(5))
	assert.False(t, task.advance(10))
	assert.Equal(t, 10, task.Progress())

	task.reset()
	assert.Zero(t, task.Progress())
}
