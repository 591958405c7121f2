package user

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

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo reads and mutates the public profile fields. The password hash
// column is deliberately absent from every query here.
type UserRepo interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	db     api.DB
}

func NewPostgresUserRepo(db api.DB, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresUserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var p types.UserProfile
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, bio, profile_picture_url, created_at
         FROM users
         WHERE id = $1`,
		userID).Scan(&p.ID, &p.Username, &p.Email, &p.Bio, &p.ProfilePictureURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user profile: %w", err)
	}

	return &p, nil
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	tag, err := r.db.Exec(ctx,
		`UPDATE users
         SET bio = COALESCE($1, bio),
             profile_picture_url = COALESCE($2, profile_picture_url),
             updated_at = now()
         WHERE id = $3`,
		params.Bio, params.ProfilePictureURL, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, types.ErrNotFound
	}

	return r.GetProfile(ctx, userID)
}
