package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/neatly/internal/client/models"
	"github.com/dmitrijs2005/neatly/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const identityMeMethod = "/neatly.auth.Identity/Me"

type GRPCClient struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

func NewGRPCClient(addr string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set("authorization", common.BearerScheme+" "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Me(ctx context.Context, accessToken string) (*models.Identity, error) {
	out := &structpb.Struct{}
	if err := s.conn.Invoke(withAccessToken(ctx, accessToken), identityMeMethod, &emptypb.Empty{}, out); err != nil {
		return nil, s.mapError(err)
	}

	f := out.GetFields()
	return &models.Identity{
		ID:        f["id"].GetStringValue(),
		Name:      f["name"].GetStringValue(),
		Email:     f["email"].GetStringValue(),
		AvatarURL: f["avatarUrl"].GetStringValue(),
	}, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
