package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/neatly/internal/server/models"
	"github.com/dmitrijs2005/neatly/internal/server/services"
	"github.com/stretchr/testify/mock"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, name, email, password string) (*services.AuthResult, error) {
	args := m.Called(name, email, password)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	args := m.Called(email, password)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) Refresh(ctx context.Context, refreshToken string) (*services.AuthResult, error) {
	args := m.Called(refreshToken)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, refreshToken string) {
	m.Called(refreshToken)
}

func (m *mockAuth) GetIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	args := m.Called(userID)
	id, _ := args.Get(0).(*models.Identity)
	return id, args.Error(1)
}

type mockAvatars struct{ mock.Mock }

func (m *mockAvatars) CreateUpload(ctx context.Context, userID string) (*services.AvatarUpload, error) {
	args := m.Called(userID)
	up, _ := args.Get(0).(*services.AvatarUpload)
	return up, args.Error(1)
}

type mockThrottle struct{ mock.Mock }

func (m *mockThrottle) Allow(ctx context.Context, scope, id string) (bool, time.Duration, error) {
	args := m.Called(scope, id)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}
