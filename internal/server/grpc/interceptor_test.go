package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/neatly/internal/logging"
	"github.com/dmitrijs2005/neatly/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	c, err := auth.NewTokenCodec("access-secret", "refresh-secret", time.Hour, 24*time.Hour, nil)
	require.NoError(t, err)
	return c
}

// helper to build server
func newTestServer(t *testing.T) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Discard(), newTestCodec(t), &fakeIdentities{})
}

func withAuth(value string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", value))
}

func TestInterceptor_PublicMethod_AllowsWithoutToken(t *testing.T) {
	s := newTestServer(t)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	handlerCalled := false

	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_Rejections(t *testing.T) {
	s := newTestServer(t)
	refresh, err := s.codec.SignRefresh("u1")
	require.NoError(t, err)

	tests := []struct {
		name string
		ctx  context.Context
		msg  string
	}{
		{"no metadata", context.Background(), "no authorization presented"},
		{"empty header", withAuth(""), "no authorization presented"},
		{"wrong scheme", withAuth("Basic abc"), "malformed header"},
		{"single part", withAuth("Bearer"), "malformed header"},
		{"three parts", withAuth("Bearer a b"), "malformed header"},
		{"garbage token", withAuth("Bearer not-a-jwt"), "invalid or expired token"},
		{"refresh token", withAuth("Bearer " + refresh), "invalid or expired token"},
	}

	info := &grpc.UnaryServerInfo{FullMethod: IdentityMeMethod}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := func(ctx context.Context, req any) (any, error) {
				t.Fatal("handler should not be called")
				return nil, nil
			}

			_, err := s.accessTokenInterceptor(tt.ctx, nil, info, h)
			require.Error(t, err)
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
			assert.Equal(t, tt.msg, status.Convert(err).Message())
		})
	}
}

func TestInterceptor_ValidToken_SetsUserID(t *testing.T) {
	s := newTestServer(t)

	token, err := s.codec.SignAccess("user-123")
	require.NoError(t, err)

	info := &grpc.UnaryServerInfo{FullMethod: IdentityMeMethod}

	var got string
	h := func(ctx context.Context, req any) (any, error) {
		got, _ = auth.UserIDFromContext(ctx)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(withAuth("Bearer "+token), nil, info, h)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "user-123", got)
}
