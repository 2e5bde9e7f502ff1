package backend

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// ParseRole maps a backend role name to a Role. Anything unrecognised is the
// least privileged role.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	default:
		return RoleGuest
	}
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

type UserProfile struct {
	Principal         string
	Email             string
	Role              Role
	IsBlocked         bool
	StorageLimitBytes uint64
	UsedStorageBytes  uint64
	CreatedAt         time.Time
}

// UserRecord is the admin view of an account.
type UserRecord struct {
	UserProfile
	FileCount uint64
}

type FileRecord struct {
	ID          string
	Owner       string
	Name        string
	Size        uint64
	MimeType    string
	UploadDate  time.Time
	BlobRef     string
	DownloadURL string
}

type StorageStats struct {
	TotalFiles       uint64
	TotalStorageUsed uint64
	TotalUsers       uint64
}

// UploadTarget is where the bytes of a new file go before UploadFile is
// called with BlobRef.
type UploadTarget struct {
	BlobRef   string
	URL       string
	ExpiresAt time.Time
}
