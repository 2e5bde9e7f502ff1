// Package backendtest provides a configurable in-process backend.Backend for
// tests.
package backendtest

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
)

// Fake records calls and delegates to the optional func fields. Unset funcs
// return zero values.
type Fake struct {
	RegisterUserFn         func(ctx context.Context, email string) (*backend.UserProfile, error)
	GetCallerUserProfileFn func(ctx context.Context) (*backend.UserProfile, error)
	IsCallerAdminFn        func(ctx context.Context) (bool, error)
	GetCallerUserRoleFn    func(ctx context.Context) (backend.Role, error)
	CreateUploadFn         func(ctx context.Context, name string, size uint64, mimeType string) (*backend.UploadTarget, error)
	UploadFileFn           func(ctx context.Context, name string, size uint64, mimeType, blobRef string) (string, error)
	ListFilesFn            func(ctx context.Context) ([]*backend.FileRecord, error)
	GetAllFilesFn          func(ctx context.Context) ([]*backend.FileRecord, error)
	GetFileFn              func(ctx context.Context, id string) (*backend.FileRecord, error)
	DeleteFileFn           func(ctx context.Context, id string) error
	AdminDeleteFileFn      func(ctx context.Context, id string) error
	GetAllUsersFn          func(ctx context.Context) ([]*backend.UserRecord, error)
	BlockUserFn            func(ctx context.Context, principal string, blocked bool) error
	GetTotalStorageStatsFn func(ctx context.Context) (*backend.StorageStats, error)
	GetUploadCountFn       func(ctx context.Context) (uint64, error)
	PingFn                 func(ctx context.Context) error

	mu     sync.Mutex
	calls  map[string]int
	closed bool
}

var _ backend.Backend = (*Fake)(nil)

func (f *Fake) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

// Calls returns how many times method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls counts every backend call except Close.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) RegisterUser(ctx context.Context, email string) (*backend.UserProfile, error) {
	f.record("RegisterUser")
	if f.RegisterUserFn == nil {
		return &backend.UserProfile{Email: email}, nil
	}
	return f.RegisterUserFn(ctx, email)
}

func (f *Fake) GetCallerUserProfile(ctx context.Context) (*backend.UserProfile, error) {
	f.record("GetCallerUserProfile")
	if f.GetCallerUserProfileFn == nil {
		return nil, nil
	}
	return f.GetCallerUserProfileFn(ctx)
}

func (f *Fake) IsCallerAdmin(ctx context.Context) (bool, error) {
	f.record("IsCallerAdmin")
	if f.IsCallerAdminFn == nil {
		return false, nil
	}
	return f.IsCallerAdminFn(ctx)
}

func (f *Fake) GetCallerUserRole(ctx context.Context) (backend.Role, error) {
	f.record("GetCallerUserRole")
	if f.GetCallerUserRoleFn == nil {
		return backend.RoleUser, nil
	}
	return f.GetCallerUserRoleFn(ctx)
}

func (f *Fake) CreateUpload(ctx context.Context, name string, size uint64, mimeType string) (*backend.UploadTarget, error) {
	f.record("CreateUpload")
	if f.CreateUploadFn == nil {
		return &backend.UploadTarget{BlobRef: "blob-" + name}, nil
	}
	return f.CreateUploadFn(ctx, name, size, mimeType)
}

func (f *Fake) UploadFile(ctx context.Context, name string, size uint64, mimeType, blobRef string) (string, error) {
	f.record("UploadFile")
	if f.UploadFileFn == nil {
		return "file-" + name, nil
	}
	return f.UploadFileFn(ctx, name, size, mimeType, blobRef)
}

func (f *Fake) ListFiles(ctx context.Context) ([]*backend.FileRecord, error) {
	f.record("ListFiles")
	if f.ListFilesFn == nil {
		return nil, nil
	}
	return f.ListFilesFn(ctx)
}

func (f *Fake) GetAllFiles(ctx context.Context) ([]*backend.FileRecord, error) {
	f.record("GetAllFiles")
	if f.GetAllFilesFn == nil {
		return nil, nil
	}
	return f.GetAllFilesFn(ctx)
}

func (f *Fake) GetFile(ctx context.Context, id string) (*backend.FileRecord, error) {
	f.record("GetFile")
	if f.GetFileFn == nil {
		return nil, backend.ErrNotFound
	}
	return f.GetFileFn(ctx, id)
}

func (f *Fake) DeleteFile(ctx context.Context, id string) error {
	f.record("DeleteFile")
	if f.DeleteFileFn == nil {
		return nil
	}
	return f.DeleteFileFn(ctx, id)
}

func (f *Fake) AdminDeleteFile(ctx context.Context, id string) error {
	f.record("AdminDeleteFile")
	if f.AdminDeleteFileFn == nil {
		return nil
	}
	return f.AdminDeleteFileFn(ctx, id)
}

func (f *Fake) GetAllUsers(ctx context.Context) ([]*backend.UserRecord, error) {
	f.record("GetAllUsers")
	if f.GetAllUsersFn == nil {
		return nil, nil
	}
	return f.GetAllUsersFn(ctx)
}

func (f *Fake) BlockUser(ctx context.Context, principal string, blocked bool) error {
	f.record("BlockUser")
	if f.BlockUserFn == nil {
		return nil
	}
	return f.BlockUserFn(ctx, principal, blocked)
}

func (f *Fake) GetTotalStorageStats(ctx context.Context) (*backend.StorageStats, error) {
	f.record("GetTotalStorageStats")
	if f.GetTotalStorageStatsFn == nil {
		return &backend.StorageStats{}, nil
	}
	return f.GetTotalStorageStatsFn(ctx)
}

func (f *Fake) GetUploadCount(ctx context.Context) (uint64, error) {
	f.record("GetUploadCount")
	if f.GetUploadCountFn == nil {
		return 0, nil
	}
	return f.GetUploadCountFn(ctx)
}

func (f *Fake) Ping(ctx context.Context) error {
	f.record("Ping")
	if f.PingFn == nil {
		return nil
	}
	return f.PingFn(ctx)
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
