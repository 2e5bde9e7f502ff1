package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/cloudsphere/internal/filex"
	"github.com/gabriel-vasile/mimetype"
)

const (
	fallbackMIME = "application/octet-stream"
	sniffLen     = 3072
)

// Task is one file on its way to the backend. Its progress only moves
// forward until the upload ends; a failed upload resets it to 0.
type Task struct {
	Name     string
	Size     uint64
	MimeType string
	Bytes    []byte

	path string

	mu       sync.Mutex
	progress int
}

// NewTask builds a task from bytes already in memory. An empty mimeType is
// sniffed from the content.
func NewTask(name, mimeType string, data []byte) *Task {
	if mimeType == "" {
		mimeType = sniff(data)
	}
	return &Task{
		Name:     name,
		Size:     uint64(len(data)),
		MimeType: mimeType,
		Bytes:    data,
	}
}

// LoadTask describes the file at path. Only its head is read here; the
// content is loaded when the upload starts.
func LoadTask(path string) (*Task, error) {
	size, err := filex.RegularFileSize(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	head, err := filex.ReadHead(path, sniffLen)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &Task{
		Name:     filepath.Base(path),
		Size:     uint64(size),
		MimeType: sniff(head),
		path:     path,
	}, nil
}

func sniff(b []byte) string {
	m := mimetype.Detect(b)
	if m == nil {
		return fallbackMIME
	}
	if s := normalizeMIME(m.String()); s != "" {
		return s
	}
	return fallbackMIME
}

func (t *Task) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// advance moves progress to p if that is forward and reports whether it did.
func (t *Task) advance(p int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p <= t.progress {
		return false
	}
	t.progress = p
	return true
}

func (t *Task) reset() {
	t.mu.Lock()
	t.progress = 0
	t.mu.Unlock()
}

func (t *Task) payload() ([]byte, error) {
	if t.Bytes != nil || t.path == "" {
		return t.Bytes, nil
	}
	b, err := os.ReadFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.path, err)
	}
	if uint64(len(b)) != t.Size {
		return nil, fmt.Errorf("read %s: file changed since it was selected", t.path)
	}
	return b, nil
}
