package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/appforum/forum-server/internal/api"
	"github.com/appforum/forum-server/internal/types"
)

var _ PostRepo = (*PostgresPostRepo)(nil)

const postSelect = `
        SELECT p.id, p.title, p.content, p.image_url, p.created_at, p.updated_at,
               u.id AS user_id, u.username, u.profile_picture_url,
               (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
               (SELECT COUNT(*) FROM favorites f WHERE f.post_id = p.id) AS favorite_count,
               (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
        FROM posts p
        JOIN users u ON p.user_id = u.id`

// PostRepo defines the contract for post persistence.
type PostRepo interface {
	List(ctx context.Context) ([]types.Post, error)
	// GetByID returns a post joined with author and counts, or
	// types.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*types.Post, error)
	// GetOwner returns the owning user id of a post, or types.ErrNotFound.
	GetOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, userID uuid.UUID, params types.CreatePostParams) (*types.Post, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdatePostParams) (*types.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ToggleLike flips the caller's like on a post and reports the new state.
	// At most one row per (post, user) is guaranteed by the store's unique
	// constraint.
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	// ToggleFavorite mirrors ToggleLike for the favorites table.
	ToggleFavorite(ctx context.Context, postID, userID uuid.UUID) (bool, error)
}

type PostgresPostRepo struct {
	logger *slog.Logger
	db     api.DB
}

func NewPostgresPostRepo(db api.DB, logger *slog.Logger) *PostgresPostRepo {
	return &PostgresPostRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresPostRepo) List(ctx context.Context) ([]types.Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	rows, err := r.db.Query(ctx, postSelect+`
        ORDER BY p.created_at DESC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query posts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching posts: %w", err)
	}
	defer rows.Close()

	posts := []types.Post{}
	for rows.Next() {
		var p types.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
			&p.UserID, &p.Username, &p.ProfilePictureURL,
			&p.LikeCount, &p.FavoriteCount, &p.CommentCount); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading posts: %w", err)
	}

	return posts, nil
}

func (r *PostgresPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	var p types.Post
	err := r.db.QueryRow(ctx, postSelect+`
        WHERE p.id = $1`, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
		&p.UserID, &p.Username, &p.ProfilePictureURL,
		&p.LikeCount, &p.FavoriteCount, &p.CommentCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query post", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching post: %w", err)
	}

	return &p, nil
}

func (r *PostgresPostRepo) GetOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "GetOwner", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	var ownerID uuid.UUID
	err := r.db.QueryRow(ctx, "SELECT user_id FROM posts WHERE id = $1", id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, types.ErrNotFound
		}
		span.RecordError(err)
		return uuid.Nil, fmt.Errorf("database error fetching post owner: %w", err)
	}
	return ownerID, nil
}

func (r *PostgresPostRepo) Create(ctx context.Context, userID uuid.UUID, params types.CreatePostParams) (*types.Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("userID", userID.String()))

	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO posts (user_id, title, content, image_url)
         VALUES ($1, $2, $3, $4)
         RETURNING id`,
		userID, params.Title, params.Content, params.ImageURL).Scan(&id)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert post", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error inserting post: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresPostRepo) Update(ctx context.Context, id uuid.UUID, params types.UpdatePostParams) (*types.Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	tag, err := r.db.Exec(ctx,
		`UPDATE posts SET title = $1, content = $2, image_url = $3, updated_at = now()
         WHERE id = $4`,
		params.Title, params.Content, params.ImageURL, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update post", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, types.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete post", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("database error deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresPostRepo) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return r.toggle(ctx, "likes", postID, userID)
}

func (r *PostgresPostRepo) ToggleFavorite(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return r.toggle(ctx, "favorites", postID, userID)
}

// toggle inserts the (post, user) row if absent, otherwise deletes it. The
// table's unique constraint keeps concurrent toggles at one row at most.
func (r *PostgresPostRepo) toggle(ctx context.Context, table string, postID, userID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "Toggle", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", table),
	))
	defer span.End()

	insert := fmt.Sprintf(
		`INSERT INTO %s (post_id, user_id) VALUES ($1, $2)
         ON CONFLICT (post_id, user_id) DO NOTHING`, table)
	tag, err := r.db.Exec(ctx, insert, postID, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to toggle", slog.String("table", table), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return false, fmt.Errorf("database error toggling %s: %w", table, err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE post_id = $1 AND user_id = $2", table)
	if _, err := r.db.Exec(ctx, del, postID, userID); err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("database error toggling %s: %w", table, err)
	}
	return false, nil
}
