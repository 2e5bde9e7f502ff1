package backend

import "context"

// Backend is the remote storage service as seen by an authenticated caller.
// Every call acts on behalf of the identity the implementation was built for.
type Backend interface {
	RegisterUser(ctx context.Context, email string) (*UserProfile, error)
	// GetCallerUserProfile returns nil, nil when the caller has no account.
	GetCallerUserProfile(ctx context.Context) (*UserProfile, error)
	IsCallerAdmin(ctx context.Context) (bool, error)
	GetCallerUserRole(ctx context.Context) (Role, error)

	CreateUpload(ctx context.Context, name string, size uint64, mimeType string) (*UploadTarget, error)
	UploadFile(ctx context.Context, name string, size uint64, mimeType string, blobRef string) (string, error)
	ListFiles(ctx context.Context) ([]*FileRecord, error)
	GetAllFiles(ctx context.Context) ([]*FileRecord, error)
	GetFile(ctx context.Context, id string) (*FileRecord, error)
	DeleteFile(ctx context.Context, id string) error
	AdminDeleteFile(ctx context.Context, id string) error

	GetAllUsers(ctx context.Context) ([]*UserRecord, error)
	BlockUser(ctx context.Context, principal string, blocked bool) error
	GetTotalStorageStats(ctx context.Context) (*StorageStats, error)
	GetUploadCount(ctx context.Context) (uint64, error)

	Ping(ctx context.Context) error
	Close() error
}
