package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
)

// AdminService is the administrator's view over every account. The backend
// decides who is an admin; a non-admin gets backend.ErrUnauthorized.
type AdminService interface {
	AllFiles(ctx context.Context) ([]*backend.FileRecord, error)
	AllUsers(ctx context.Context) ([]*backend.UserRecord, error)
	Stats(ctx context.Context) (*backend.StorageStats, error)
	DeleteFile(ctx context.Context, id string) error
	BlockUser(ctx context.Context, principal string, blocked bool) error
}

type adminService struct {
	actors ActorSource
	cache  *cache.Cache
	logger logging.Logger
}

func NewAdminService(actors ActorSource, c *cache.Cache, l logging.Logger) AdminService {
	return &adminService{actors: actors, cache: c, logger: l.With("module", "admin")}
}

func (s *adminService) AllFiles(ctx context.Context) ([]*backend.FileRecord, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyAllFiles, func(ctx context.Context) ([]*backend.FileRecord, error) {
		act, err := s.actors.Actor()
		if err != nil {
			return nil, err
		}
		return act.GetAllFiles(ctx)
	})
}

func (s *adminService) AllUsers(ctx context.Context) ([]*backend.UserRecord, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyAllUsers, func(ctx context.Context) ([]*backend.UserRecord, error) {
		act, err := s.actors.Actor()
		if err != nil {
			return nil, err
		}
		return act.GetAllUsers(ctx)
	})
}

func (s *adminService) Stats(ctx context.Context) (*backend.StorageStats, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyStorageStats, func(ctx context.Context) (*backend.StorageStats, error) {
		act, err := s.actors.Actor()
		if err != nil {
			return nil, err
		}
		return act.GetTotalStorageStats(ctx)
	})
}

func (s *adminService) DeleteFile(ctx context.Context, id string) error {
	act, err := s.actors.Actor()
	if err != nil {
		return err
	}
	if err := act.AdminDeleteFile(ctx, id); err != nil {
		return fmt.Errorf("admin delete file: %w", err)
	}
	s.cache.Apply(ctx, cache.MutationAdminDelete)
	s.logger.Info(ctx, "file deleted by admin", "id", id)
	return nil
}

func (s *adminService) BlockUser(ctx context.Context, principal string, blocked bool) error {
	act, err := s.actors.Actor()
	if err != nil {
		return err
	}
	if err := act.BlockUser(ctx, principal, blocked); err != nil {
		return fmt.Errorf("block user: %w", err)
	}
	s.cache.Apply(ctx, cache.MutationBlock)
	s.logger.Info(ctx, "user block changed", "principal", principal, "blocked", blocked)
	return nil
}
