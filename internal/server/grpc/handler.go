package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
	"github.com/dmitrijs2005/cloudsphere/internal/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func (s *GRPCServer) caller(ctx context.Context) (string, error) {
	p, ok := principalFrom(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing principal")
	}
	return p, nil
}

func toTimestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func profileToWire(u *models.User) *wire.UserProfile {
	return &wire.UserProfile{
		Principal:    u.Principal,
		Email:        u.Email,
		Role:         u.Role,
		StorageUsed:  u.StorageUsed,
		StorageLimit: u.StorageLimit,
		Blocked:      u.Blocked,
		RegisteredAt: toTimestamp(u.RegisteredAt),
	}
}

func fileToWire(f *models.File) *wire.FileRecord {
	return &wire.FileRecord{
		ID:          f.ID,
		Owner:       f.Owner,
		FileName:    f.FileName,
		ContentType: f.ContentType,
		Size:        f.Size,
		BlobKey:     f.BlobKey,
		DownloadURL: f.DownloadURL,
		UploadedAt:  toTimestamp(f.UploadedAt),
	}
}

func filesToWire(files []*models.File) []*wire.FileRecord {
	out := make([]*wire.FileRecord, 0, len(files))
	for _, f := range files {
		out = append(out, fileToWire(f))
	}
	return out
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *wire.RegisterUserRequest) (*wire.UserProfile, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registration request", "principal", principal)

	u, err := s.accounts.Register(ctx, principal, req.Email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return profileToWire(u), nil
}

func (s *GRPCServer) GetCallerUserProfile(ctx context.Context, _ *emptypb.Empty) (*wire.GetProfileResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.accounts.Profile(ctx, principal)
	if errors.Is(err, common.ErrorNotFound) {
		return &wire.GetProfileResponse{}, nil
	}
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.GetProfileResponse{Profile: profileToWire(u)}, nil
}

func (s *GRPCServer) IsCallerAdmin(ctx context.Context, _ *emptypb.Empty) (*wire.IsAdminResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.accounts.IsAdmin(ctx, principal)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.IsAdminResponse{IsAdmin: ok}, nil
}

func (s *GRPCServer) GetCallerUserRole(ctx context.Context, _ *emptypb.Empty) (*wire.RoleResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	role, err := s.accounts.Role(ctx, principal)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.RoleResponse{Role: role}, nil
}

func (s *GRPCServer) CreateUpload(ctx context.Context, req *wire.CreateUploadRequest) (*wire.CreateUploadResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	target, err := s.files.CreateUpload(ctx, principal, req.FileName, req.ContentType, req.Size)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.CreateUploadResponse{
		BlobKey:   target.BlobKey,
		UploadURL: target.URL,
		ExpiresAt: toTimestamp(target.ExpiresAt),
	}, nil
}

func (s *GRPCServer) UploadFile(ctx context.Context, req *wire.UploadFileRequest) (*wire.UploadFileResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	f, err := s.files.UploadFile(ctx, principal, req.FileName, req.ContentType, req.Size, req.BlobKey)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.UploadFileResponse{File: fileToWire(f)}, nil
}

func (s *GRPCServer) ListFiles(ctx context.Context, _ *emptypb.Empty) (*wire.ListFilesResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	files, err := s.files.List(ctx, principal)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.ListFilesResponse{Files: filesToWire(files)}, nil
}

func (s *GRPCServer) GetAllFiles(ctx context.Context, _ *emptypb.Empty) (*wire.ListFilesResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	files, err := s.files.AllFiles(ctx, principal)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.ListFilesResponse{Files: filesToWire(files)}, nil
}

func (s *GRPCServer) GetFile(ctx context.Context, req *wire.FileIDRequest) (*wire.GetFileResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	f, err := s.files.Get(ctx, principal, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.GetFileResponse{File: fileToWire(f)}, nil
}

func (s *GRPCServer) DeleteFile(ctx context.Context, req *wire.FileIDRequest) (*emptypb.Empty, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.files.Delete(ctx, principal, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) AdminDeleteFile(ctx context.Context, req *wire.FileIDRequest) (*emptypb.Empty, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.files.AdminDelete(ctx, principal, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) GetAllUsers(ctx context.Context, _ *emptypb.Empty) (*wire.GetAllUsersResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.accounts.AllUsers(ctx, principal)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*wire.UserRecord, 0, len(users))
	for _, u := range users {
		p := profileToWire(u)
		out = append(out, &wire.UserRecord{
			Principal:    p.Principal,
			Email:        p.Email,
			Role:         p.Role,
			StorageUsed:  p.StorageUsed,
			StorageLimit: p.StorageLimit,
			FileCount:    u.FileCount,
			Blocked:      p.Blocked,
			RegisteredAt: p.RegisteredAt,
		})
	}
	return &wire.GetAllUsersResponse{Users: out}, nil
}

func (s *GRPCServer) BlockUser(ctx context.Context, req *wire.BlockUserRequest) (*emptypb.Empty, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Block(ctx, principal, req.Principal, req.Blocked); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) GetTotalStorageStats(ctx context.Context, _ *emptypb.Empty) (*wire.StorageStats, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.accounts.Stats(ctx, principal)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.StorageStats{
		TotalUsers: stats.TotalUsers,
		TotalFiles: stats.TotalFiles,
		TotalBytes: stats.TotalBytes,
	}, nil
}

func (s *GRPCServer) GetUploadCount(ctx context.Context, _ *emptypb.Empty) (*wire.UploadCountResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.accounts.UploadCount(ctx, principal)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.UploadCountResponse{Count: n}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}
