package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// GRPCClient implements Backend over the CloudSphere gRPC service. The
// identity token it was built with is attached to every call.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client wire.StorageServiceClient
	token  string
}

var _ Backend = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.token != "" {
		ctx = withAccessToken(ctx, c.token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpoint and binds the client to token. Extra
// dial options are appended after the defaults, so tests can swap the
// transport (e.g. bufconn).
func NewGRPCClient(endpoint, token string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{token: token}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = wire.NewStorageServiceClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) RegisterUser(ctx context.Context, email string) (*UserProfile, error) {
	resp, err := c.client.RegisterUser(ctx, &wire.RegisterUserRequest{Email: email})
	if err != nil {
		return nil, mapError(err)
	}
	return profileFromWire(resp), nil
}

func (c *GRPCClient) GetCallerUserProfile(ctx context.Context) (*UserProfile, error) {
	resp, err := c.client.GetCallerUserProfile(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	if resp.Profile == nil {
		return nil, nil
	}
	return profileFromWire(resp.Profile), nil
}

func (c *GRPCClient) IsCallerAdmin(ctx context.Context) (bool, error) {
	resp, err := c.client.IsCallerAdmin(ctx, &emptypb.Empty{})
	if err != nil {
		return false, mapError(err)
	}
	return resp.IsAdmin, nil
}

func (c *GRPCClient) GetCallerUserRole(ctx context.Context) (Role, error) {
	resp, err := c.client.GetCallerUserRole(ctx, &emptypb.Empty{})
	if err != nil {
		return RoleGuest, mapError(err)
	}
	return ParseRole(resp.Role), nil
}

func (c *GRPCClient) CreateUpload(ctx context.Context, name string, size uint64, mimeType string) (*UploadTarget, error) {
	resp, err := c.client.CreateUpload(ctx, &wire.CreateUploadRequest{
		FileName:    name,
		ContentType: mimeType,
		Size:        int64(size),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &UploadTarget{
		BlobRef:   resp.BlobKey,
		URL:       resp.UploadURL,
		ExpiresAt: fromTimestamp(resp.ExpiresAt),
	}, nil
}

func (c *GRPCClient) UploadFile(ctx context.Context, name string, size uint64, mimeType string, blobRef string) (string, error) {
	resp, err := c.client.UploadFile(ctx, &wire.UploadFileRequest{
		FileName:    name,
		ContentType: mimeType,
		Size:        int64(size),
		BlobKey:     blobRef,
	})
	if err != nil {
		return "", mapError(err)
	}
	if resp.File == nil {
		return "", fmt.Errorf("rpc error: empty upload response")
	}
	return resp.File.ID, nil
}

func (c *GRPCClient) ListFiles(ctx context.Context) ([]*FileRecord, error) {
	resp, err := c.client.ListFiles(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return filesFromWire(resp.Files), nil
}

func (c *GRPCClient) GetAllFiles(ctx context.Context) ([]*FileRecord, error) {
	resp, err := c.client.GetAllFiles(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return filesFromWire(resp.Files), nil
}

func (c *GRPCClient) GetFile(ctx context.Context, id string) (*FileRecord, error) {
	resp, err := c.client.GetFile(ctx, &wire.FileIDRequest{ID: id})
	if err != nil {
		return nil, mapError(err)
	}
	if resp.File == nil {
		return nil, ErrNotFound
	}
	return fileFromWire(resp.File), nil
}

func (c *GRPCClient) DeleteFile(ctx context.Context, id string) error {
	_, err := c.client.DeleteFile(ctx, &wire.FileIDRequest{ID: id})
	return mapError(err)
}

func (c *GRPCClient) AdminDeleteFile(ctx context.Context, id string) error {
	_, err := c.client.AdminDeleteFile(ctx, &wire.FileIDRequest{ID: id})
	return mapError(err)
}

func (c *GRPCClient) GetAllUsers(ctx context.Context) ([]*UserRecord, error) {
	resp, err := c.client.GetAllUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	users := make([]*UserRecord, 0, len(resp.Users))
	for _, u := range resp.Users {
		users = append(users, &UserRecord{
			UserProfile: UserProfile{
				Principal:         u.Principal,
				Email:             u.Email,
				Role:              ParseRole(u.Role),
				IsBlocked:         u.Blocked,
				StorageLimitBytes: toUint(u.StorageLimit),
				UsedStorageBytes:  toUint(u.StorageUsed),
				CreatedAt:         fromTimestamp(u.RegisteredAt),
			},
			FileCount: toUint(u.FileCount),
		})
	}
	return users, nil
}

func (c *GRPCClient) BlockUser(ctx context.Context, principal string, blocked bool) error {
	_, err := c.client.BlockUser(ctx, &wire.BlockUserRequest{Principal: principal, Blocked: blocked})
	return mapError(err)
}

func (c *GRPCClient) GetTotalStorageStats(ctx context.Context) (*StorageStats, error) {
	resp, err := c.client.GetTotalStorageStats(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return &StorageStats{
		TotalFiles:       toUint(resp.TotalFiles),
		TotalStorageUsed: toUint(resp.TotalBytes),
		TotalUsers:       toUint(resp.TotalUsers),
	}, nil
}

func (c *GRPCClient) GetUploadCount(ctx context.Context) (uint64, error) {
	resp, err := c.client.GetUploadCount(ctx, &emptypb.Empty{})
	if err != nil {
		return 0, mapError(err)
	}
	return toUint(resp.Count), nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	_, err := c.client.Ping(ctx, &emptypb.Empty{})
	return mapError(err)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.AlreadyExists:
		return ErrAlreadyRegistered
	case codes.NotFound:
		if strings.Contains(st.Message(), common.ReasonNotRegistered) {
			return ErrNotRegistered
		}
		return ErrNotFound
	case codes.FailedPrecondition:
		if strings.Contains(st.Message(), common.ReasonBlocked) {
			return ErrBlocked
		}
		return fmt.Errorf("rpc error: %w", err)
	case codes.ResourceExhausted:
		return ErrQuotaExceeded
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Canceled:
		return fmt.Errorf("rpc error: %w", context.Canceled)
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func profileFromWire(p *wire.UserProfile) *UserProfile {
	return &UserProfile{
		Principal:         p.Principal,
		Email:             p.Email,
		Role:              ParseRole(p.Role),
		IsBlocked:         p.Blocked,
		StorageLimitBytes: toUint(p.StorageLimit),
		UsedStorageBytes:  toUint(p.StorageUsed),
		CreatedAt:         fromTimestamp(p.RegisteredAt),
	}
}

func fileFromWire(f *wire.FileRecord) *FileRecord {
	return &FileRecord{
		ID:          f.ID,
		Owner:       f.Owner,
		Name:        f.FileName,
		Size:        toUint(f.Size),
		MimeType:    f.ContentType,
		UploadDate:  fromTimestamp(f.UploadedAt),
		BlobRef:     f.BlobKey,
		DownloadURL: f.DownloadURL,
	}
}

func filesFromWire(in []*wire.FileRecord) []*FileRecord {
	out := make([]*FileRecord, 0, len(in))
	for _, f := range in {
		out = append(out, fileFromWire(f))
	}
	return out
}

func fromTimestamp(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

func toUint(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
