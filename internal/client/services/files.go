package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/client/upload"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
)

// ActorSource hands out the session's backend.
type ActorSource interface {
	Actor() (backend.Backend, error)
}

// FileService covers what a signed-in account holder does with their own
// files and profile.
type FileService interface {
	Profile(ctx context.Context) (*backend.UserProfile, error)
	ListFiles(ctx context.Context) ([]*backend.FileRecord, error)
	GetFile(ctx context.Context, id string) (*backend.FileRecord, error)
	DeleteFile(ctx context.Context, id string) error
	UploadCount(ctx context.Context) (uint64, error)
	Upload(ctx context.Context, task *upload.Task, progress upload.ProgressFunc) (string, error)
}

type fileService struct {
	actors      ActorSource
	cache       *cache.Cache
	coordinator *upload.Coordinator
	logger      logging.Logger
}

func NewFileService(actors ActorSource, c *cache.Cache, co *upload.Coordinator, l logging.Logger) FileService {
	return &fileService{actors: actors, cache: c, coordinator: co, logger: l.With("module", "files")}
}

// Profile returns nil, nil when the caller has no account yet.
func (s *fileService) Profile(ctx context.Context) (*backend.UserProfile, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyUserProfile, func(ctx context.Context) (*backend.UserProfile, error) {
		act, err := s.actors.Actor()
		if err != nil {
			return nil, err
		}
		return act.GetCallerUserProfile(ctx)
	})
}

func (s *fileService) ListFiles(ctx context.Context) ([]*backend.FileRecord, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyFiles, func(ctx context.Context) ([]*backend.FileRecord, error) {
		act, err := s.actors.Actor()
		if err != nil {
			return nil, err
		}
		return act.ListFiles(ctx)
	})
}

func (s *fileService) UploadCount(ctx context.Context) (uint64, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyUploadCount, func(ctx context.Context) (uint64, error) {
		act, err := s.actors.Actor()
		if err != nil {
			return 0, err
		}
		return act.GetUploadCount(ctx)
	})
}

// GetFile is not cached; the record carries a short-lived download URL.
func (s *fileService) GetFile(ctx context.Context, id string) (*backend.FileRecord, error) {
	act, err := s.actors.Actor()
	if err != nil {
		return nil, err
	}
	return act.GetFile(ctx, id)
}

func (s *fileService) DeleteFile(ctx context.Context, id string) error {
	act, err := s.actors.Actor()
	if err != nil {
		return err
	}
	if err := act.DeleteFile(ctx, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	s.cache.Apply(ctx, cache.MutationDelete)
	s.logger.Info(ctx, "file deleted", "id", id)
	return nil
}

// Upload pre-checks the task against the caller's cached profile and
// uploads it.
func (s *fileService) Upload(ctx context.Context, task *upload.Task, progress upload.ProgressFunc) (string, error) {
	profile, err := s.Profile(ctx)
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return "", backend.ErrNotRegistered
	}
	if profile.IsBlocked {
		return "", backend.ErrBlocked
	}
	return s.coordinator.Upload(ctx, task, profile, progress)
}
