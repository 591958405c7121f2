package auth

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

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the contract for credential persistence.
type AuthRepo interface {
	// UserExists reports whether a row with the given username or email
	// already exists.
	UserExists(ctx context.Context, username, email string) (bool, error)
	// CreateUser inserts a new user with an already-hashed password and
	// returns the generated id.
	CreateUser(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error)
	// GetUserByIdentifier looks a user up by username OR email in a single
	// query. Returns types.ErrNotFound when no row matches.
	GetUserByIdentifier(ctx context.Context, identifier string) (*types.User, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     api.DB
}

func NewPostgresAuthRepo(db api.DB, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresAuthRepo) UserExists(ctx context.Context, username, email string) (bool, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UserExists", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		username, email).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check user existence", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return false, fmt.Errorf("database error checking user existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("username", username))

	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
         VALUES ($1, $2, $3)
         RETURNING id`,
		username, email, passwordHash).Scan(&id)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return uuid.Nil, fmt.Errorf("database error inserting user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("userID", id.String()))
	return id, nil
}

func (r *PostgresAuthRepo) GetUserByIdentifier(ctx context.Context, identifier string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByIdentifier", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	// Single OR-lookup: a username colliding with another user's email string
	// resolves to whichever row the database returns first.
	var user types.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, profile_picture_url, created_at, updated_at
         FROM users
         WHERE username = $1 OR email = $1`,
		identifier).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.ProfilePictureURL, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query user by identifier", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	return &user, nil
}
