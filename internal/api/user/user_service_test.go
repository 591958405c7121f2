package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appforum/forum-server/internal/types"
)

// MockUserRepo is a mock implementation of the UserRepo interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func TestGetMe(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo)
		ctx := context.Background()
		callerID := uuid.New()
		profile := &types.UserProfile{ID: callerID, Username: "alice", Email: "alice@example.com"}

		mockRepo.On("GetProfile", ctx, callerID).Return(profile, nil).Once()

		got, err := service.GetMe(ctx, callerID)

		assert.NoError(t, err)
		assert.Equal(t, callerID, got.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RowGone", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo)
		ctx := context.Background()
		callerID := uuid.New()

		mockRepo.On("GetProfile", ctx, callerID).Return(nil, types.ErrNotFound).Once()

		_, err := service.GetMe(ctx, callerID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateMe(t *testing.T) {
	t.Run("PartialUpdate", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo)
		ctx := context.Background()
		callerID := uuid.New()
		bio := "hello"
		params := types.UpdateProfileParams{Bio: &bio}
		updated := &types.UserProfile{ID: callerID, Username: "alice", Bio: &bio}

		mockRepo.On("UpdateProfile", ctx, callerID, params).Return(updated, nil).Once()

		got, err := service.UpdateMe(ctx, callerID, params)

		assert.NoError(t, err)
		require.NotNil(t, got.Bio)
		assert.Equal(t, "hello", *got.Bio)
		mockRepo.AssertExpectations(t)
	})
}
