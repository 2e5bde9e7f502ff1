// Package blob moves file bytes to the object store. A Ref wraps the bytes
// of one file and reports transfer progress; a Transport delivers it.
package blob

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// ProgressFunc receives the number of bytes handed to the transport so far.
type ProgressFunc func(sent, total int64)

type Ref struct {
	data     []byte
	progress ProgressFunc
}

func FromBytes(b []byte) *Ref {
	return &Ref{data: b}
}

// WithUploadProgress returns a copy of r that reports reads to fn.
func (r *Ref) WithUploadProgress(fn ProgressFunc) *Ref {
	return &Ref{data: r.data, progress: fn}
}

func (r *Ref) Size() int64 {
	return int64(len(r.data))
}

func (r *Ref) Bytes() []byte {
	return r.data
}

// Reader returns a fresh reader over the bytes. Progress never moves
// backwards when a transport seeks to retry.
func (r *Ref) Reader() io.ReadSeeker {
	return &progressReader{r: bytes.NewReader(r.data), total: r.Size(), fn: r.progress}
}

type progressReader struct {
	r     *bytes.Reader
	total int64
	fn    ProgressFunc

	mu       sync.Mutex
	reported int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.fn != nil {
		pos := p.total - int64(p.r.Len())
		p.mu.Lock()
		if pos > p.reported {
			p.reported = pos
			p.mu.Unlock()
			p.fn(pos, p.total)
		} else {
			p.mu.Unlock()
		}
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	return p.r.Seek(offset, whence)
}

// Destination says where a Ref goes. Presigned transports use URL, direct
// ones use Key.
type Destination struct {
	Key         string
	URL         string
	ContentType string
}

type Transport interface {
	Put(ctx context.Context, dst Destination, ref *Ref) error
}

const defaultContentType = "application/octet-stream"

func contentType(dst Destination) string {
	if dst.ContentType == "" {
		return defaultContentType
	}
	return dst.ContentType
}
