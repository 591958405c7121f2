package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/appforum/forum-server/internal/types"
)

var _ CommentService = (*CommentServiceImpl)(nil)

// CommentService defines the comment operations with their ownership gating.
type CommentService interface {
	ListByPost(ctx context.Context, postID uuid.UUID) ([]types.Comment, error)
	Create(ctx context.Context, postID uuid.UUID, content string, callerID uuid.UUID) (*types.Comment, error)
	Update(ctx context.Context, commentID uuid.UUID, content string, callerID uuid.UUID) (*types.Comment, error)
	Delete(ctx context.Context, commentID uuid.UUID, callerID uuid.UUID) error
}

type CommentServiceImpl struct {
	logger *slog.Logger
	repo   CommentRepo
}

func NewCommentService(repo CommentRepo, logger *slog.Logger) *CommentServiceImpl {
	return &CommentServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ListByPost is public; unauthenticated callers may read.
func (s *CommentServiceImpl) ListByPost(ctx context.Context, postID uuid.UUID) ([]types.Comment, error) {
	return s.repo.GetByPost(ctx, postID)
}

func (s *CommentServiceImpl) Create(ctx context.Context, postID uuid.UUID, content string, callerID uuid.UUID) (*types.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment content cannot be empty", types.ErrValidation)
	}

	exists, err := s.repo.PostExists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: post does not exist", types.ErrNotFound)
	}

	return s.repo.Create(ctx, postID, callerID, content)
}

// Update lets only the comment's owner change it. The owner column is
// immutable, so the read-then-write window cannot change who owns the row;
// concurrent content edits are last-writer-wins.
func (s *CommentServiceImpl) Update(ctx context.Context, commentID uuid.UUID, content string, callerID uuid.UUID) (*types.Comment, error) {
	existing, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != callerID {
		s.logger.WarnContext(ctx, "Comment update denied",
			slog.String("commentID", commentID.String()),
			slog.String("ownerID", existing.UserID.String()),
			slog.String("callerID", callerID.String()),
		)
		return nil, fmt.Errorf("%w: caller does not own this comment", types.ErrForbidden)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment content cannot be empty", types.ErrValidation)
	}

	return s.repo.Update(ctx, commentID, content)
}

// Delete is idempotent from the caller's perspective: deleting an id that no
// longer resolves yields ErrNotFound, same as for an id that never existed.
func (s *CommentServiceImpl) Delete(ctx context.Context, commentID uuid.UUID, callerID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if existing.UserID != callerID {
		s.logger.WarnContext(ctx, "Comment delete denied",
			slog.String("commentID", commentID.String()),
			slog.String("ownerID", existing.UserID.String()),
			slog.String("callerID", callerID.String()),
		)
		return fmt.Errorf("%w: caller does not own this comment", types.ErrForbidden)
	}

	return s.repo.Delete(ctx, commentID)
}
