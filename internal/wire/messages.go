package wire

import "google.golang.org/protobuf/types/known/timestamppb"

type RegisterUserRequest struct {
	Email string
}

type UserProfile struct {
	Principal    string
	Email        string
	Role         string
	StorageUsed  int64
	StorageLimit int64
	Blocked      bool
	RegisteredAt *timestamppb.Timestamp
}

// GetProfileResponse carries a nil Profile when the caller has no account.
type GetProfileResponse struct {
	Profile *UserProfile
}

type IsAdminResponse struct {
	IsAdmin bool
}

type RoleResponse struct {
	Role string
}

type CreateUploadRequest struct {
	FileName    string
	ContentType string
	Size        int64
}

type CreateUploadResponse struct {
	BlobKey   string
	UploadURL string
	ExpiresAt *timestamppb.Timestamp
}

type UploadFileRequest struct {
	FileName    string
	ContentType string
	Size        int64
	BlobKey     string
}

type FileRecord struct {
	ID          string
	Owner       string
	FileName    string
	ContentType string
	Size        int64
	BlobKey     string
	DownloadURL string
	UploadedAt  *timestamppb.Timestamp
}

type UploadFileResponse struct {
	File *FileRecord
}

type ListFilesResponse struct {
	Files []*FileRecord
}

type FileIDRequest struct {
	ID string
}

type GetFileResponse struct {
	File *FileRecord
}

type UserRecord struct {
	Principal    string
	Email        string
	Role         string
	StorageUsed  int64
	StorageLimit int64
	FileCount    int64
	Blocked      bool
	RegisteredAt *timestamppb.Timestamp
}

type GetAllUsersResponse struct {
	Users []*UserRecord
}

type BlockUserRequest struct {
	Principal string
	Blocked   bool
}

type StorageStats struct {
	TotalUsers int64
	TotalFiles int64
	TotalBytes int64
}

type UploadCountResponse struct {
	Count int64
}
