package comment

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

var _ CommentRepo = (*PostgresCommentRepo)(nil)

const commentSelect = `
        SELECT c.id, c.post_id, c.content, c.created_at,
               u.id AS user_id, u.username, u.profile_picture_url
        FROM comments c
        JOIN users u ON c.user_id = u.id`

// CommentRepo defines the contract for comment persistence.
type CommentRepo interface {
	// GetByPost returns all comments of a post ordered by creation time
	// ascending, each joined with the author's public fields.
	GetByPost(ctx context.Context, postID uuid.UUID) ([]types.Comment, error)
	// GetByID returns a single comment joined with its author, or
	// types.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*types.Comment, error)
	// PostExists reports whether the parent post exists.
	PostExists(ctx context.Context, postID uuid.UUID) (bool, error)
	// Create inserts a comment and returns it joined with the author.
	Create(ctx context.Context, postID, userID uuid.UUID, content string) (*types.Comment, error)
	// Update rewrites the content and returns the refreshed joined row.
	Update(ctx context.Context, id uuid.UUID, content string) (*types.Comment, error)
	// Delete removes the row. Returns types.ErrNotFound when nothing was
	// deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresCommentRepo struct {
	logger *slog.Logger
	db     api.DB
}

func NewPostgresCommentRepo(db api.DB, logger *slog.Logger) *PostgresCommentRepo {
	return &PostgresCommentRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresCommentRepo) GetByPost(ctx context.Context, postID uuid.UUID) ([]types.Comment, error) {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "GetByPost", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetByPost"), slog.String("postID", postID.String()))

	rows, err := r.db.Query(ctx, commentSelect+`
        WHERE c.post_id = $1
        ORDER BY c.created_at ASC`, postID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query comments", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching comments: %w", err)
	}
	defer rows.Close()

	comments := []types.Comment{}
	for rows.Next() {
		var c types.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Content, &c.CreatedAt,
			&c.UserID, &c.Username, &c.ProfilePictureURL); err != nil {
			l.ErrorContext(ctx, "Failed to scan comment row", slog.Any("error", err))
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading comments: %w", err)
	}

	return comments, nil
}

func (r *PostgresCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Comment, error) {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
	))
	defer span.End()

	var c types.Comment
	err := r.db.QueryRow(ctx, commentSelect+`
        WHERE c.id = $1`, id).Scan(
		&c.ID, &c.PostID, &c.Content, &c.CreatedAt,
		&c.UserID, &c.Username, &c.ProfilePictureURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching comment: %w", err)
	}

	return &c, nil
}

func (r *PostgresCommentRepo) PostExists(ctx context.Context, postID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "PostExists", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)", postID).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("database error checking post existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresCommentRepo) Create(ctx context.Context, postID, userID uuid.UUID, content string) (*types.Comment, error) {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("postID", postID.String()))

	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO comments (post_id, user_id, content)
         VALUES ($1, $2, $3)
         RETURNING id`,
		postID, userID, content).Scan(&id)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error inserting comment: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresCommentRepo) Update(ctx context.Context, id uuid.UUID, content string) (*types.Comment, error) {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
	))
	defer span.End()

	tag, err := r.db.Exec(ctx,
		"UPDATE comments SET content = $1, updated_at = now() WHERE id = $2",
		content, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, types.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
	))
	defer span.End()

	tag, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("database error deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
