package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// User is a registered account keyed by the identity principal.
type User struct {
	Principal    string
	Email        string
	Role         string
	StorageUsed  int64
	StorageLimit int64
	UploadCount  int64
	Blocked      bool
	RegisteredAt time.Time

	// FileCount is filled only by admin listings.
	FileCount int64
}

// Remaining is the number of bytes the user may still store.
func (u *User) Remaining() int64 {
	if u.StorageUsed >= u.StorageLimit {
		return 0
	}
	return u.StorageLimit - u.StorageUsed
}
