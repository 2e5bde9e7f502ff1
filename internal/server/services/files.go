package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/dmitrijs2005/cloudsphere/internal/server/blobstore"
	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
	"github.com/dmitrijs2005/cloudsphere/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// FileService validates uploads, hands out blob targets and keeps file
// metadata in step with storage usage.
type FileService struct {
	repomanager repomanager.RepositoryManager
	store       blobstore.Store
	accounts    *AccountService
	policy      Policy
	logger      logging.Logger
	now         func() time.Time
}

func NewFileService(rm repomanager.RepositoryManager, store blobstore.Store, accounts *AccountService, p Policy, l logging.Logger) *FileService {
	return &FileService{
		repomanager: rm,
		store:       store,
		accounts:    accounts,
		policy:      p.withDefaults(),
		logger:      l.With("module", "files"),
		now:         time.Now,
	}
}

// ownerPrefix scopes blob keys to one principal without putting the raw
// principal into object paths.
func ownerPrefix(principal string) string {
	return "users/" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(principal)).String() + "/"
}

func (s *FileService) newBlobKey(principal string) string {
	d := s.now().UTC()
	return fmt.Sprintf("%s%04d/%02d/%02d/%s", ownerPrefix(principal), d.Year(), d.Month(), d.Day(), uuid.New())
}

// check applies the type, size and quota rules to a declared upload.
func (s *FileService) check(user *models.User, name, contentType string, size int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty file name", common.ErrorValidation)
	}
	if !allowedDeclared(name, contentType) {
		return fmt.Errorf("%w: invalid file type", common.ErrorValidation)
	}
	if size <= 0 {
		return fmt.Errorf("%w: empty file", common.ErrorValidation)
	}
	if size > s.policy.MaxSingleFileBytes {
		return fmt.Errorf("%w: file too large", common.ErrorValidation)
	}
	if size > user.Remaining() {
		return common.ErrorQuotaExceeded
	}
	return nil
}

// CreateUpload reserves a blob key for a new file and presigns a PUT to it.
func (s *FileService) CreateUpload(ctx context.Context, principal, name, contentType string, size int64) (*models.UploadTarget, error) {
	user, err := s.accounts.requireUploader(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.check(user, name, contentType, size); err != nil {
		return nil, err
	}

	key := s.newBlobKey(principal)
	url, expires, err := s.store.PresignPut(ctx, key, baseMIME(contentType), size)
	if err != nil {
		return nil, err
	}
	return &models.UploadTarget{BlobKey: key, URL: url, ExpiresAt: expires}, nil
}

// UploadFile records a file whose bytes are already in the blob store. The
// object must exist, match the declared size and look like an allowed type.
func (s *FileService) UploadFile(ctx context.Context, principal, name, contentType string, size int64, blobKey string) (*models.File, error) {
	user, err := s.accounts.requireUploader(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(blobKey, ownerPrefix(principal)) {
		return nil, common.ErrorForbidden
	}
	if err := s.check(user, name, contentType, size); err != nil {
		s.discard(ctx, blobKey)
		return nil, err
	}

	info, err := s.store.Stat(ctx, blobKey)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: blob not uploaded", common.ErrorValidation)
	}
	if err != nil {
		return nil, err
	}
	if info.Size != size {
		return nil, fmt.Errorf("%w: blob size %d does not match declared size %d", common.ErrorValidation, info.Size, size)
	}

	head, err := s.store.Head(ctx, blobKey, blobstore.HeadBytes)
	if err != nil {
		return nil, err
	}
	if !allowedContent(name, head) {
		s.discard(ctx, blobKey)
		return nil, fmt.Errorf("%w: invalid file type", common.ErrorValidation)
	}

	file := &models.File{
		ID:          uuid.NewString(),
		Owner:       principal,
		FileName:    name,
		ContentType: baseMIME(contentType),
		Size:        size,
		BlobKey:     blobKey,
	}
	if file.ContentType == "" {
		file.ContentType = info.ContentType
	}

	err = s.repomanager.InTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		if err := r.Users.ReserveStorage(ctx, principal, size); err != nil {
			return err
		}
		if _, err := r.Files.Create(ctx, file); err != nil {
			return err
		}
		return r.Users.IncrementUploads(ctx, principal)
	})
	if err != nil {
		if errors.Is(err, common.ErrorQuotaExceeded) {
			s.discard(ctx, blobKey)
		}
		return nil, err
	}

	s.logger.Info(ctx, "file uploaded", "principal", principal, "id", file.ID, "size", size)
	return file, nil
}

func (s *FileService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "blob cleanup failed", "key", key, "error", err)
	}
}

func (s *FileService) withDownloadURLs(ctx context.Context, files []*models.File) []*models.File {
	for _, f := range files {
		u, err := s.store.PresignGet(ctx, f.BlobKey)
		if err != nil {
			s.logger.Warn(ctx, "presign download failed", "id", f.ID, "error", err)
			continue
		}
		f.DownloadURL = u
	}
	return files
}

// List returns the caller's files, newest first.
func (s *FileService) List(ctx context.Context, principal string) ([]*models.File, error) {
	files, err := s.repomanager.Repos().Files.ListByOwner(ctx, principal)
	if err != nil {
		return nil, err
	}
	return s.withDownloadURLs(ctx, files), nil
}

// Get returns one file. Files of other users are reported as not found
// unless the caller is an admin.
func (s *FileService) Get(ctx context.Context, principal, id string) (*models.File, error) {
	f, err := s.repomanager.Repos().Files.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Owner != principal {
		admin, err := s.accounts.IsAdmin(ctx, principal)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, common.ErrorNotFound
		}
	}
	return s.withDownloadURLs(ctx, []*models.File{f})[0], nil
}

// Delete removes one of the caller's own files.
func (s *FileService) Delete(ctx context.Context, principal, id string) error {
	return s.remove(ctx, id, func(f *models.File) bool { return f.Owner == principal })
}

// AllFiles lists every stored file. Admin only.
func (s *FileService) AllFiles(ctx context.Context, caller string) ([]*models.File, error) {
	if err := s.accounts.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	files, err := s.repomanager.Repos().Files.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withDownloadURLs(ctx, files), nil
}

// AdminDelete removes any file. Admin only.
func (s *FileService) AdminDelete(ctx context.Context, caller, id string) error {
	if err := s.accounts.requireAdmin(ctx, caller); err != nil {
		return err
	}
	return s.remove(ctx, id, func(*models.File) bool { return true })
}

func (s *FileService) remove(ctx context.Context, id string, allowed func(f *models.File) bool) error {
	var removed *models.File
	err := s.repomanager.InTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		f, err := r.Files.Get(ctx, id)
		if err != nil {
			return err
		}
		if !allowed(f) {
			return common.ErrorNotFound
		}
		if err := r.Files.Delete(ctx, id); err != nil {
			return err
		}
		removed = f
		return r.Users.ReleaseStorage(ctx, f.Owner, f.Size)
	})
	if err != nil {
		return err
	}

	s.discard(ctx, removed.BlobKey)
	s.logger.Info(ctx, "file deleted", "id", id, "owner", removed.Owner)
	return nil
}
