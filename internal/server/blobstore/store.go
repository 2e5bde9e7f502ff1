// Package blobstore holds the bytes of uploaded files. The backend never
// proxies uploads: it hands out presigned URLs and later checks that the
// object really arrived.
package blobstore

import (
	"context"
	"time"
)

// HeadBytes is how much of an object is read to sniff its content type.
const HeadBytes = 3072

type Store interface {
	// PresignPut returns a URL the client can PUT the object to until the
	// returned expiry.
	PresignPut(ctx context.Context, key, contentType string, size int64) (string, time.Time, error)
	PresignGet(ctx context.Context, key string) (string, error)
	// Stat returns common.ErrorNotFound when the object does not exist.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	// Head returns up to n leading bytes of the object.
	Head(ctx context.Context, key string, n int64) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type ObjectInfo struct {
	Size        int64
	ContentType string
}
