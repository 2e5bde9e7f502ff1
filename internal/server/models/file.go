// Package models defines server-side data models persisted in the database.
package models

import "time"

// File is the metadata of an uploaded blob. The bytes live in the blob
// store under BlobKey.
type File struct {
	ID          string
	Owner       string
	FileName    string
	ContentType string
	Size        int64
	BlobKey     string
	UploadedAt  time.Time

	// DownloadURL is a short-lived link, never persisted.
	DownloadURL string
}

// UploadTarget tells the client where to PUT the bytes of a new file.
type UploadTarget struct {
	BlobKey   string
	URL       string
	ExpiresAt time.Time
}

// Stats aggregates storage usage across all accounts.
type Stats struct {
	TotalUsers int64
	TotalFiles int64
	TotalBytes int64
}
