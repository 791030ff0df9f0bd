// Package grpc exposes the internal gRPC listener: the standard health
// service and a small identity service guarded by the access-token
// interceptor.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/neatly/internal/logging"
	"github.com/dmitrijs2005/neatly/internal/server/auth"
	"github.com/dmitrijs2005/neatly/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// IdentityProvider resolves the profile of an authenticated user.
type IdentityProvider interface {
	GetIdentity(ctx context.Context, userID string) (*models.Identity, error)
}

type GRPCServer struct {
	address    string
	codec      *auth.TokenCodec
	identities IdentityProvider
	health     *health.Server
	logger     logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, codec *auth.TokenCodec, identities IdentityProvider) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		codec:      codec,
		identities: identities,
		health:     health.NewServer(),
	}
}

// SetServing flips the reported health of the whole server.
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	// registers services
	healthpb.RegisterHealthServer(srv, s.health)
	srv.RegisterService(&identityServiceDesc, s)
	s.SetServing(true)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
