package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "cloudsphere.v1.StorageService"

const (
	MethodRegisterUser         = "RegisterUser"
	MethodGetCallerUserProfile = "GetCallerUserProfile"
	MethodIsCallerAdmin        = "IsCallerAdmin"
	MethodGetCallerUserRole    = "GetCallerUserRole"
	MethodCreateUpload         = "CreateUpload"
	MethodUploadFile           = "UploadFile"
	MethodListFiles            = "ListFiles"
	MethodGetAllFiles          = "GetAllFiles"
	MethodGetFile              = "GetFile"
	MethodDeleteFile           = "DeleteFile"
	MethodAdminDeleteFile      = "AdminDeleteFile"
	MethodGetAllUsers          = "GetAllUsers"
	MethodBlockUser            = "BlockUser"
	MethodGetTotalStorageStats = "GetTotalStorageStats"
	MethodGetUploadCount       = "GetUploadCount"
	MethodPing                 = "Ping"
)

// FullMethod returns the gRPC full method name, e.g.
// "/cloudsphere.v1.StorageService/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// StorageServiceServer is implemented by the backend.
type StorageServiceServer interface {
	RegisterUser(context.Context, *RegisterUserRequest) (*UserProfile, error)
	GetCallerUserProfile(context.Context, *emptypb.Empty) (*GetProfileResponse, error)
	IsCallerAdmin(context.Context, *emptypb.Empty) (*IsAdminResponse, error)
	GetCallerUserRole(context.Context, *emptypb.Empty) (*RoleResponse, error)
	CreateUpload(context.Context, *CreateUploadRequest) (*CreateUploadResponse, error)
	UploadFile(context.Context, *UploadFileRequest) (*UploadFileResponse, error)
	ListFiles(context.Context, *emptypb.Empty) (*ListFilesResponse, error)
	GetAllFiles(context.Context, *emptypb.Empty) (*ListFilesResponse, error)
	GetFile(context.Context, *FileIDRequest) (*GetFileResponse, error)
	DeleteFile(context.Context, *FileIDRequest) (*emptypb.Empty, error)
	AdminDeleteFile(context.Context, *FileIDRequest) (*emptypb.Empty, error)
	GetAllUsers(context.Context, *emptypb.Empty) (*GetAllUsersResponse, error)
	BlockUser(context.Context, *BlockUserRequest) (*emptypb.Empty, error)
	GetTotalStorageStats(context.Context, *emptypb.Empty) (*StorageStats, error)
	GetUploadCount(context.Context, *emptypb.Empty) (*UploadCountResponse, error)
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// UnimplementedStorageServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedStorageServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedStorageServiceServer) RegisterUser(context.Context, *RegisterUserRequest) (*UserProfile, error) {
	return nil, unimplemented(MethodRegisterUser)
}
func (UnimplementedStorageServiceServer) GetCallerUserProfile(context.Context, *emptypb.Empty) (*GetProfileResponse, error) {
	return nil, unimplemented(MethodGetCallerUserProfile)
}
func (UnimplementedStorageServiceServer) IsCallerAdmin(context.Context, *emptypb.Empty) (*IsAdminResponse, error) {
	return nil, unimplemented(MethodIsCallerAdmin)
}
func (UnimplementedStorageServiceServer) GetCallerUserRole(context.Context, *emptypb.Empty) (*RoleResponse, error) {
	return nil, unimplemented(MethodGetCallerUserRole)
}
func (UnimplementedStorageServiceServer) CreateUpload(context.Context, *CreateUploadRequest) (*CreateUploadResponse, error) {
	return nil, unimplemented(MethodCreateUpload)
}
func (UnimplementedStorageServiceServer) UploadFile(context.Context, *UploadFileRequest) (*UploadFileResponse, error) {
	return nil, unimplemented(MethodUploadFile)
}
func (UnimplementedStorageServiceServer) ListFiles(context.Context, *emptypb.Empty) (*ListFilesResponse, error) {
	return nil, unimplemented(MethodListFiles)
}
func (UnimplementedStorageServiceServer) GetAllFiles(context.Context, *emptypb.Empty) (*ListFilesResponse, error) {
	return nil, unimplemented(MethodGetAllFiles)
}
func (UnimplementedStorageServiceServer) GetFile(context.Context, *FileIDRequest) (*GetFileResponse, error) {
	return nil, unimplemented(MethodGetFile)
}
func (UnimplementedStorageServiceServer) DeleteFile(context.Context, *FileIDRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodDeleteFile)
}
func (UnimplementedStorageServiceServer) AdminDeleteFile(context.Context, *FileIDRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodAdminDeleteFile)
}
func (UnimplementedStorageServiceServer) GetAllUsers(context.Context, *emptypb.Empty) (*GetAllUsersResponse, error) {
	return nil, unimplemented(MethodGetAllUsers)
}
func (UnimplementedStorageServiceServer) BlockUser(context.Context, *BlockUserRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodBlockUser)
}
func (UnimplementedStorageServiceServer) GetTotalStorageStats(context.Context, *emptypb.Empty) (*StorageStats, error) {
	return nil, unimplemented(MethodGetTotalStorageStats)
}
func (UnimplementedStorageServiceServer) GetUploadCount(context.Context, *emptypb.Empty) (*UploadCountResponse, error) {
	return nil, unimplemented(MethodGetUploadCount)
}
func (UnimplementedStorageServiceServer) Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodPing)
}

// unary builds a MethodDesc that decodes Req, runs the interceptor chain and
// dispatches to call.
func unary[Req any, Resp any](name string, call func(StorageServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(StorageServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var StorageServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StorageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegisterUser, StorageServiceServer.RegisterUser),
		unary(MethodGetCallerUserProfile, StorageServiceServer.GetCallerUserProfile),
		unary(MethodIsCallerAdmin, StorageServiceServer.IsCallerAdmin),
		unary(MethodGetCallerUserRole, StorageServiceServer.GetCallerUserRole),
		unary(MethodCreateUpload, StorageServiceServer.CreateUpload),
		unary(MethodUploadFile, StorageServiceServer.UploadFile),
		unary(MethodListFiles, StorageServiceServer.ListFiles),
		unary(MethodGetAllFiles, StorageServiceServer.GetAllFiles),
		unary(MethodGetFile, StorageServiceServer.GetFile),
		unary(MethodDeleteFile, StorageServiceServer.DeleteFile),
		unary(MethodAdminDeleteFile, StorageServiceServer.AdminDeleteFile),
		unary(MethodGetAllUsers, StorageServiceServer.GetAllUsers),
		unary(MethodBlockUser, StorageServiceServer.BlockUser),
		unary(MethodGetTotalStorageStats, StorageServiceServer.GetTotalStorageStats),
		unary(MethodGetUploadCount, StorageServiceServer.GetUploadCount),
		unary(MethodPing, StorageServiceServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cloudsphere/v1/storage",
}

func RegisterStorageServiceServer(s grpc.ServiceRegistrar, srv StorageServiceServer) {
	s.RegisterService(&StorageServiceDesc, srv)
}

// StorageServiceClient is the client-side stub of the storage service.
type StorageServiceClient interface {
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*UserProfile, error)
	GetCallerUserProfile(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetProfileResponse, error)
	IsCallerAdmin(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*IsAdminResponse, error)
	GetCallerUserRole(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*RoleResponse, error)
	CreateUpload(ctx context.Context, in *CreateUploadRequest, opts ...grpc.CallOption) (*CreateUploadResponse, error)
	UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*UploadFileResponse, error)
	ListFiles(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListFilesResponse, error)
	GetAllFiles(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListFilesResponse, error)
	GetFile(ctx context.Context, in *FileIDRequest, opts ...grpc.CallOption) (*GetFileResponse, error)
	DeleteFile(ctx context.Context, in *FileIDRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	AdminDeleteFile(ctx context.Context, in *FileIDRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetAllUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllUsersResponse, error)
	BlockUser(ctx context.Context, in *BlockUserRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetTotalStorageStats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StorageStats, error)
	GetUploadCount(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*UploadCountResponse, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type storageServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStorageServiceClient(cc grpc.ClientConnInterface) StorageServiceClient {
	return &storageServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storageServiceClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*UserProfile, error) {
	return invoke[UserProfile](ctx, c.cc, MethodRegisterUser, in, opts)
}
func (c *storageServiceClient) GetCallerUserProfile(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	return invoke[GetProfileResponse](ctx, c.cc, MethodGetCallerUserProfile, in, opts)
}
func (c *storageServiceClient) IsCallerAdmin(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*IsAdminResponse, error) {
	return invoke[IsAdminResponse](ctx, c.cc, MethodIsCallerAdmin, in, opts)
}
func (c *storageServiceClient) GetCallerUserRole(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*RoleResponse, error) {
	return invoke[RoleResponse](ctx, c.cc, MethodGetCallerUserRole, in, opts)
}
func (c *storageServiceClient) CreateUpload(ctx context.Context, in *CreateUploadRequest, opts ...grpc.CallOption) (*CreateUploadResponse, error) {
	return invoke[CreateUploadResponse](ctx, c.cc, MethodCreateUpload, in, opts)
}
func (c *storageServiceClient) UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*UploadFileResponse, error) {
	return invoke[UploadFileResponse](ctx, c.cc, MethodUploadFile, in, opts)
}
func (c *storageServiceClient) ListFiles(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListFilesResponse, error) {
	return invoke[ListFilesResponse](ctx, c.cc, MethodListFiles, in, opts)
}
func (c *storageServiceClient) GetAllFiles(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListFilesResponse, error) {
	return invoke[ListFilesResponse](ctx, c.cc, MethodGetAllFiles, in, opts)
}
func (c *storageServiceClient) GetFile(ctx context.Context, in *FileIDRequest, opts ...grpc.CallOption) (*GetFileResponse, error) {
	return invoke[GetFileResponse](ctx, c.cc, MethodGetFile, in, opts)
}
func (c *storageServiceClient) DeleteFile(ctx context.Context, in *FileIDRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodDeleteFile, in, opts)
}
func (c *storageServiceClient) AdminDeleteFile(ctx context.Context, in *FileIDRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodAdminDeleteFile, in, opts)
}
func (c *storageServiceClient) GetAllUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllUsersResponse, error) {
	return invoke[GetAllUsersResponse](ctx, c.cc, MethodGetAllUsers, in, opts)
}
func (c *storageServiceClient) BlockUser(ctx context.Context, in *BlockUserRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodBlockUser, in, opts)
}
func (c *storageServiceClient) GetTotalStorageStats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StorageStats, error) {
	return invoke[StorageStats](ctx, c.cc, MethodGetTotalStorageStats, in, opts)
}
func (c *storageServiceClient) GetUploadCount(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*UploadCountResponse, error) {
	return invoke[UploadCountResponse](ctx, c.cc, MethodGetUploadCount, in, opts)
}
func (c *storageServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodPing, in, opts)
}
