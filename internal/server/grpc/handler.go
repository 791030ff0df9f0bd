package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/neatly/internal/common"
	"github.com/dmitrijs2005/neatly/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	IdentityServiceName = "neatly.auth.Identity"
	IdentityMeMethod    = "/" + IdentityServiceName + "/Me"
)

type identityServer interface {
	Me(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// identityServiceDesc is written by hand; the service only moves well-known
// protobuf types, so there is no generated code to depend on.
var identityServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityServiceName,
	HandlerType: (*identityServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Me",
			Handler:    identityMeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "neatly/auth/identity",
}

func identityMeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(identityServer).Me(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IdentityMeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(identityServer).Me(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Me returns the identity of the caller as a struct with the same fields as
// the REST /me endpoint.
func (s *GRPCServer) Me(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no authorization presented")
	}

	id, err := s.identities.GetIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.NotFound, "user not found")
		}
		s.logger.Error(ctx, "identity lookup failed", "user_id", userID, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	fields := map[string]any{
		"id":    id.ID,
		"name":  id.Name,
		"email": id.Email,
	}
	if id.AvatarURL != "" {
		fields["avatarUrl"] = id.AvatarURL
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}
