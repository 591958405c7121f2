package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/appforum/forum-server/internal/types"
)

var _ UserService = (*UserServiceImpl)(nil)

type UserService interface {
	// GetMe returns the authenticated caller's own profile.
	GetMe(ctx context.Context, callerID uuid.UUID) (*types.UserProfile, error)
	// UpdateMe applies the optional profile mutations for the caller.
	UpdateMe(ctx context.Context, callerID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error)
}

type UserServiceImpl struct {
	repo UserRepo
}

func NewUserService(repo UserRepo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) GetMe(ctx context.Context, callerID uuid.UUID) (*types.UserProfile, error) {
	return s.repo.GetProfile(ctx, callerID)
}

func (s *UserServiceImpl) UpdateMe(ctx context.Context, callerID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error) {
	return s.repo.UpdateProfile(ctx, callerID, params)
}
