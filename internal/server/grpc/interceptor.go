package grpc

import (
	"context"

	"github.com/dmitrijs2005/neatly/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authorizationMetadataKey is the lower-cased HTTP Authorization header.
const authorizationMetadataKey = "authorization"

// publicMethods are reachable without an access token.
var publicMethods = map[string]struct{}{
	"/grpc.health.v1.Health/Check": {},
	"/grpc.health.v1.Health/List":  {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(authorizationMetadataKey); len(values) > 0 {
			header = values[0]
		}
	}
	if header == "" {
		return nil, status.Error(codes.Unauthenticated, "no authorization presented")
	}

	token, ok := auth.ParseBearer(header)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "malformed header")
	}

	claims, err := s.codec.VerifyAccess(token)
	if err != nil {
		s.logger.Debug(ctx, "access token rejected", "method", info.FullMethod, "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
	}

	return handler(auth.WithUserID(ctx, claims.UserID), req)
}
