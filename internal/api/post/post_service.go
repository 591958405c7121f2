package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/appforum/forum-server/internal/types"
)

var _ PostService = (*PostServiceImpl)(nil)

// PostService defines the post operations. Mutations follow the same
// ownership gating as comments: only the post's owner may update or delete.
type PostService interface {
	List(ctx context.Context) ([]types.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Post, error)
	Create(ctx context.Context, callerID uuid.UUID, params types.CreatePostParams) (*types.Post, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdatePostParams, callerID uuid.UUID) (*types.Post, error)
	Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID) error
	ToggleLike(ctx context.Context, postID, callerID uuid.UUID) (bool, error)
	ToggleFavorite(ctx context.Context, postID, callerID uuid.UUID) (bool, error)
}

type PostServiceImpl struct {
	logger *slog.Logger
	repo   PostRepo
}

func NewPostService(repo PostRepo, logger *slog.Logger) *PostServiceImpl {
	return &PostServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *PostServiceImpl) List(ctx context.Context) ([]types.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostServiceImpl) Get(ctx context.Context, id uuid.UUID) (*types.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PostServiceImpl) Create(ctx context.Context, callerID uuid.UUID, params types.CreatePostParams) (*types.Post, error) {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", types.ErrValidation)
	}
	return s.repo.Create(ctx, callerID, params)
}

func (s *PostServiceImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdatePostParams, callerID uuid.UUID) (*types.Post, error) {
	ownerID, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		s.logger.WarnContext(ctx, "Post update denied",
			slog.String("postID", id.String()),
			slog.String("ownerID", ownerID.String()),
			slog.String("callerID", callerID.String()),
		)
		return nil, fmt.Errorf("%w: caller does not own this post", types.ErrForbidden)
	}
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", types.ErrValidation)
	}

	return s.repo.Update(ctx, id, params)
}

func (s *PostServiceImpl) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID) error {
	ownerID, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != callerID {
		s.logger.WarnContext(ctx, "Post delete denied",
			slog.String("postID", id.String()),
			slog.String("ownerID", ownerID.String()),
			slog.String("callerID", callerID.String()),
		)
		return fmt.Errorf("%w: caller does not own this post", types.ErrForbidden)
	}

	return s.repo.Delete(ctx, id)
}

// ToggleLike requires the post to exist but no ownership: any authenticated
// user may like any post.
func (s *PostServiceImpl) ToggleLike(ctx context.Context, postID, callerID uuid.UUID) (bool, error) {
	if _, err := s.repo.GetOwner(ctx, postID); err != nil {
		return false, err
	}
	return s.repo.ToggleLike(ctx, postID, callerID)
}

func (s *PostServiceImpl) ToggleFavorite(ctx context.Context, postID, callerID uuid.UUID) (bool, error) {
	if _, err := s.repo.GetOwner(ctx, postID); err != nil {
		return false, err
	}
	return s.repo.ToggleFavorite(ctx, postID, callerID)
}
