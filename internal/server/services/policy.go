// Package services contains the reference backend's business logic:
// accounts and roles in AccountService, file metadata and blob handling in
// FileService. Both return sentinel errors from internal/common that the
// gRPC layer maps to status codes.
package services

import (
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultStorageLimit       int64 = 15 << 30
	DefaultMaxSingleFileBytes int64 = 2 << 30
)

// Policy carries the account and upload limits the services enforce.
type Policy struct {
	Admins              []string
	DefaultStorageLimit int64
	MaxSingleFileBytes  int64
}

func (p Policy) withDefaults() Policy {
	if p.DefaultStorageLimit <= 0 {
		p.DefaultStorageLimit = DefaultStorageLimit
	}
	if p.MaxSingleFileBytes <= 0 {
		p.MaxSingleFileBytes = DefaultMaxSingleFileBytes
	}
	return p
}

var allowedTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"video/mp4":  {},
}

var allowedName = regexp.MustCompile(`(?i)\.(pdf|docx?|jpe?g|png|mp4)$`)

func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// allowedDeclared checks what the client says it is uploading.
func allowedDeclared(name, contentType string) bool {
	if _, ok := allowedTypes[baseMIME(contentType)]; ok {
		return true
	}
	return allowedName.MatchString(name)
}

// generic sniff results say nothing about the document format.
var genericTypes = map[string]struct{}{
	"application/octet-stream":  {},
	"application/zip":           {},
	"application/x-ole-storage": {},
}

// allowedContent checks the leading bytes of an uploaded object. Container
// formats that mimetype cannot narrow down pass when the name is allowed.
func allowedContent(name string, head []byte) bool {
	detected := mimetype.Detect(head)
	for m := detected; m != nil; m = m.Parent() {
		if _, ok := allowedTypes[baseMIME(m.String())]; ok {
			return true
		}
	}
	if _, ok := genericTypes[baseMIME(detected.String())]; ok {
		return allowedName.MatchString(name)
	}
	return false
}
