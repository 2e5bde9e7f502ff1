package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
	"github.com/dmitrijs2005/cloudsphere/internal/server/repositories/repomanager"
)

// AccountService registers accounts, resolves roles and runs the admin
// account operations.
type AccountService struct {
	repomanager repomanager.RepositoryManager
	policy      Policy
	admins      map[string]struct{}
	logger      logging.Logger
}

func NewAccountService(rm repomanager.RepositoryManager, p Policy, l logging.Logger) *AccountService {
	p = p.withDefaults()
	admins := make(map[string]struct{}, len(p.Admins))
	for _, a := range p.Admins {
		if a = strings.TrimSpace(a); a != "" {
			admins[a] = struct{}{}
		}
	}
	return &AccountService{
		repomanager: rm,
		policy:      p,
		admins:      admins,
		logger:      l.With("module", "accounts"),
	}
}

func (s *AccountService) isConfiguredAdmin(principal string) bool {
	_, ok := s.admins[principal]
	return ok
}

// Register creates the caller's account. Registering twice is not an error:
// the existing profile is returned unchanged.
func (s *AccountService) Register(ctx context.Context, principal, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}

	repo := s.repomanager.Repos().Users

	existing, err := repo.Get(ctx, principal)
	if err == nil {
		return s.withRole(existing), nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	role := models.RoleUser
	if s.isConfiguredAdmin(principal) {
		role = models.RoleAdmin
	}

	user, err := repo.Create(ctx, &models.User{
		Principal:    principal,
		Email:        email,
		Role:         role,
		StorageLimit: s.policy.DefaultStorageLimit,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		// Lost a race with a concurrent registration of the same principal.
		existing, err := repo.Get(ctx, principal)
		if err != nil {
			return nil, err
		}
		return s.withRole(existing), nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "principal", principal, "role", role)
	return user, nil
}

// withRole lets the admin list promote accounts registered before the
// principal was listed.
func (s *AccountService) withRole(u *models.User) *models.User {
	if s.isConfiguredAdmin(u.Principal) {
		u.Role = models.RoleAdmin
	}
	return u
}

// Profile returns the caller's account or common.ErrorNotFound.
func (s *AccountService) Profile(ctx context.Context, principal string) (*models.User, error) {
	u, err := s.repomanager.Repos().Users.Get(ctx, principal)
	if err != nil {
		return nil, err
	}
	return s.withRole(u), nil
}

// Role resolves admin, user or guest. Unregistered callers are guests
// unless the admin list names them.
func (s *AccountService) Role(ctx context.Context, principal string) (string, error) {
	if s.isConfiguredAdmin(principal) {
		return models.RoleAdmin, nil
	}
	u, err := s.repomanager.Repos().Users.Get(ctx, principal)
	if errors.Is(err, common.ErrorNotFound) {
		return models.RoleGuest, nil
	}
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *AccountService) IsAdmin(ctx context.Context, principal string) (bool, error) {
	role, err := s.Role(ctx, principal)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

func (s *AccountService) requireAdmin(ctx context.Context, principal string) error {
	ok, err := s.IsAdmin(ctx, principal)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorForbidden
	}
	return nil
}

// requireUploader returns the caller's account if it may upload.
func (s *AccountService) requireUploader(ctx context.Context, principal string) (*models.User, error) {
	u, err := s.Profile(ctx, principal)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorNotRegistered
	}
	if err != nil {
		return nil, err
	}
	if u.Blocked {
		return nil, common.ErrorBlocked
	}
	return u, nil
}

func (s *AccountService) UploadCount(ctx context.Context, principal string) (int64, error) {
	u, err := s.repomanager.Repos().Users.Get(ctx, principal)
	if errors.Is(err, common.ErrorNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return u.UploadCount, nil
}

// AllUsers lists every account. Admin only.
func (s *AccountService) AllUsers(ctx context.Context, caller string) ([]*models.User, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	users, err := s.repomanager.Repos().Users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		s.withRole(u)
	}
	return users, nil
}

// Block sets or clears the blocked flag of principal. Admin only; admins
// cannot block themselves.
func (s *AccountService) Block(ctx context.Context, caller, principal string, blocked bool) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if caller == principal && blocked {
		return fmt.Errorf("%w: cannot block yourself", common.ErrorValidation)
	}
	if err := s.repomanager.Repos().Users.SetBlocked(ctx, principal, blocked); err != nil {
		return err
	}
	s.logger.Info(ctx, "user block changed", "admin", caller, "principal", principal, "blocked", blocked)
	return nil
}

// Stats totals users, files and bytes. Admin only.
func (s *AccountService) Stats(ctx context.Context, caller string) (*models.Stats, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	repos := s.repomanager.Repos()

	users, err := repos.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	files, bytes, err := repos.Files.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Stats{TotalUsers: users, TotalFiles: files, TotalBytes: bytes}, nil
}
