package comment

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

// MockCommentRepo is a mock implementation of the CommentRepo interface
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) GetByPost(ctx context.Context, postID uuid.UUID) ([]types.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Comment), args.Error(1)
}

func (m *MockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func (m *MockCommentRepo) PostExists(ctx context.Context, postID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommentRepo) Create(ctx context.Context, postID, userID uuid.UUID, content string) (*types.Comment, error) {
	args := m.Called(ctx, postID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func (m *MockCommentRepo) Update(ctx context.Context, id uuid.UUID, content string) (*types.Comment, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func (m *MockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCommentCreate(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()
		callerID := uuid.New()
		created := &types.Comment{ID: uuid.New(), PostID: postID, UserID: callerID, Content: "nice post"}

		mockRepo.On("PostExists", ctx, postID).Return(true, nil).Once()
		mockRepo.On("Create", ctx, postID, callerID, "nice post").Return(created, nil).Once()

		comment, err := service.Create(ctx, postID, "nice post", callerID)

		assert.NoError(t, err)
		require.NotNil(t, comment)
		assert.Equal(t, callerID, comment.UserID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmptyContent", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)

		_, err := service.Create(context.Background(), uuid.New(), "   ", uuid.New())

		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "PostExists", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingPost", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		postID := uuid.New()

		mockRepo.On("PostExists", ctx, postID).Return(false, nil).Once()

		_, err := service.Create(ctx, postID, "orphan", uuid.New())

		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCommentUpdate(t *testing.T) {
	logger := slog.Default()

	t.Run("OwnerCanUpdate", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		ownerID := uuid.New()
		commentID := uuid.New()
		existing := &types.Comment{ID: commentID, UserID: ownerID, Content: "old"}
		updated := &types.Comment{ID: commentID, UserID: ownerID, Content: "new"}

		mockRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, commentID, "new").Return(updated, nil).Once()

		comment, err := service.Update(ctx, commentID, "new", ownerID)

		assert.NoError(t, err)
		assert.Equal(t, "new", comment.Content)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		ownerID := uuid.New()
		strangerID := uuid.New()
		commentID := uuid.New()
		existing := &types.Comment{ID: commentID, UserID: ownerID, Content: "old"}

		mockRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()

		_, err := service.Update(ctx, commentID, "hijacked", strangerID)

		assert.ErrorIs(t, err, types.ErrForbidden)
		// The write must never reach the repository when the gate denies.
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingCommentBeatsForbidden", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		commentID := uuid.New()

		mockRepo.On("GetByID", ctx, commentID).Return(nil, types.ErrNotFound).Once()

		_, err := service.Update(ctx, commentID, "whatever", uuid.New())

		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("EmptyContentAfterOwnershipCheck", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		ownerID := uuid.New()
		commentID := uuid.New()
		existing := &types.Comment{ID: commentID, UserID: ownerID, Content: "old"}

		mockRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()

		_, err := service.Update(ctx, commentID, "", ownerID)

		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCommentDelete(t *testing.T) {
	logger := slog.Default()

	t.Run("OwnerCanDelete", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		ownerID := uuid.New()
		commentID := uuid.New()
		existing := &types.Comment{ID: commentID, UserID: ownerID}

		mockRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()
		mockRepo.On("Delete", ctx, commentID).Return(nil).Once()

		err := service.Delete(ctx, commentID, ownerID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		commentID := uuid.New()
		existing := &types.Comment{ID: commentID, UserID: uuid.New()}

		mockRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()

		err := service.Delete(ctx, commentID, uuid.New())

		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("DoubleDelete", func(t *testing.T) {
		mockRepo := new(MockCommentRepo)
		service := NewCommentService(mockRepo, logger)
		ctx := context.Background()
		ownerID := uuid.New()
		commentID := uuid.New()
		existing := &types.Comment{ID: commentID, UserID: ownerID}

		mockRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()
		mockRepo.On("Delete", ctx, commentID).Return(nil).Once()
		// Second call: the row is gone.
		mockRepo.On("GetByID", ctx, commentID).Return(nil, types.ErrNotFound).Once()

		require.NoError(t, service.Delete(ctx, commentID, ownerID))

		err := service.Delete(ctx, commentID, ownerID)
		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}
