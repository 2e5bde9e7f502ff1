// Package grpc exposes the reference backend over the CloudSphere storage
// service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/dmitrijs2005/cloudsphere/internal/server/auth"
	"github.com/dmitrijs2005/cloudsphere/internal/server/services"
	"github.com/dmitrijs2005/cloudsphere/internal/wire"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	wire.UnimplementedStorageServiceServer
	address  string
	accounts *services.AccountService
	files    *services.FileService
	verifier *auth.Verifier
	logger   logging.Logger
}

var _ wire.StorageServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, as *services.AccountService, fs *services.FileService, v *auth.Verifier) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: as,
		files:    fs,
		verifier: v,
	}
}

// NewServer builds a grpc.Server with the interceptor chain and the storage
// service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.recoveryInterceptor,
		metricsInterceptor,
		s.accessTokenInterceptor,
	))
	wire.RegisterStorageServiceServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}
