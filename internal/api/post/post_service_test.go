package post

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appforum/forum-server/internal/types"
)

// MockPostRepo is a mock implementation of the PostRepo interface
type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) List(ctx context.Context) ([]types.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Post), args.Error(1)
}

func (m *MockPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) GetOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockPostRepo) Create(ctx context.Context, userID uuid.UUID, params types.CreatePostParams) (*types.Post, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) Update(ctx context.Context, id uuid.UUID, params types.UpdatePostParams) (*types.Post, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepo) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepo) ToggleFavorite(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func TestPostCreate(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		callerID := uuid.New()
		params := types.CreatePostParams{Title: "Hello", Content: "World"}
		created := &types.Post{ID: uuid.New(), UserID: callerID, Title: "Hello", Content: "World"}

		mockRepo.On("Create", ctx, callerID, params).Return(created, nil).Once()

		post, err := service.Create(ctx, callerID, params)

		assert.NoError(t, err)
		assert.Equal(t, callerID, post.UserID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingTitleOrContent", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()

		_, err := service.Create(ctx, uuid.New(), types.CreatePostParams{Content: "no title"})
		assert.ErrorIs(t, err, types.ErrValidation)

		_, err = service.Create(ctx, uuid.New(), types.CreatePostParams{Title: "no content"})
		assert.ErrorIs(t, err, types.ErrValidation)

		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPostUpdate(t *testing.T) {
	logger := slog.Default()
	params := types.UpdatePostParams{Title: "New", Content: "Body"}

	t.Run("OwnerCanUpdate", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		ownerID := uuid.New()
		postID := uuid.New()
		updated := &types.Post{ID: postID, UserID: ownerID, Title: "New", Content: "Body"}

		mockRepo.On("GetOwner", ctx, postID).Return(ownerID, nil).Once()
		mockRepo.On("Update", ctx, postID, params).Return(updated, nil).Once()

		post, err := service.Update(ctx, postID, params, ownerID)

		assert.NoError(t, err)
		assert.Equal(t, "New", post.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(uuid.New(), nil).Once()

		_, err := service.Update(ctx, postID, params, uuid.New())

		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingPostBeatsForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(uuid.Nil, types.ErrNotFound).Once()

		_, err := service.Update(ctx, postID, params, uuid.New())

		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("EmptyFieldsAfterOwnershipCheck", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		ownerID := uuid.New()
		postID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(ownerID, nil).Once()

		_, err := service.Update(ctx, postID, types.UpdatePostParams{Title: " ", Content: ""}, ownerID)

		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPostDelete(t *testing.T) {
	logger := slog.Default()

	t.Run("OwnerCanDelete", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		ownerID := uuid.New()
		postID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(ownerID, nil).Once()
		mockRepo.On("Delete", ctx, postID).Return(nil).Once()

		assert.NoError(t, service.Delete(ctx, postID, ownerID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(uuid.New(), nil).Once()

		err := service.Delete(ctx, postID, uuid.New())

		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("MissingPost", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(uuid.Nil, types.ErrNotFound).Once()

		err := service.Delete(ctx, postID, uuid.New())
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestToggles(t *testing.T) {
	logger := slog.Default()

	t.Run("AnyAuthenticatedUserMayLike", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()
		strangerID := uuid.New()

		// Ownership is irrelevant for likes; only existence matters.
		mockRepo.On("GetOwner", ctx, postID).Return(uuid.New(), nil).Once()
		mockRepo.On("ToggleLike", ctx, postID, strangerID).Return(true, nil).Once()

		liked, err := service.ToggleLike(ctx, postID, strangerID)

		assert.NoError(t, err)
		assert.True(t, liked)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SecondToggleUnlikes", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()
		callerID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(uuid.New(), nil).Twice()
		mockRepo.On("ToggleLike", ctx, postID, callerID).Return(true, nil).Once()
		mockRepo.On("ToggleLike", ctx, postID, callerID).Return(false, nil).Once()

		liked, err := service.ToggleLike(ctx, postID, callerID)
		require.NoError(t, err)
		assert.True(t, liked)

		liked, err = service.ToggleLike(ctx, postID, callerID)
		require.NoError(t, err)
		assert.False(t, liked)
		mockRepo.AssertExpectations(t)
	})

	t.Run("LikeMissingPost", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(uuid.Nil, types.ErrNotFound).Once()

		_, err := service.ToggleLike(ctx, postID, uuid.New())

		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertNotCalled(t, "ToggleLike", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("FavoriteFollowsSameRules", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()
		callerID := uuid.New()

		mockRepo.On("GetOwner", ctx, postID).Return(uuid.New(), nil).Once()
		mockRepo.On("ToggleFavorite", ctx, postID, callerID).Return(true, nil).Once()

		favorited, err := service.ToggleFavorite(ctx, postID, callerID)

		assert.NoError(t, err)
		assert.True(t, favorited)
		mockRepo.AssertExpectations(t)
	})
}
