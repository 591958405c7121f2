package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"

	"github.com/appforum/forum-server/app/observability/metrics"
	"github.com/appforum/forum-server/config"
	"github.com/appforum/forum-server/internal/types"
)

// bcryptCost is the fixed work factor for password hashing. Hashing runs
// inline in the request path on every call and is never cached.
const bcryptCost = 10

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	// Register creates a new user and returns the new id plus a session token.
	Register(ctx context.Context, username, email, password string) (userID string, token string, err error)

	// Login authenticates by username-or-email and returns a session token
	// with a public summary of the user.
	Login(ctx context.Context, identifier, password string) (string, *types.UserSummary, error)
}

type AuthServiceImpl struct {
	logger  *slog.Logger
	repo    AuthRepo
	jwtCfg  config.JWTConfig
	metrics *metrics.AppMetrics
}

// NewAuthService creates a new AuthService. metrics may be nil in tests.
func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, m *metrics.AppMetrics, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:  logger,
		repo:    repo,
		jwtCfg:  jwtCfg,
		metrics: m,
	}
}

// Register creates a new user. The password is stored only as a salted bcrypt
// hash; the plaintext never leaves this function.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (string, string, error) {
	start := time.Now()
	defer s.recordAuth(ctx, "register", start)

	l := s.logger.With(slog.String("method", "Register"), slog.String("username", username))

	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return "", "", fmt.Errorf("%w: username, email and password are required", types.ErrValidation)
	}

	exists, err := s.repo.UserExists(ctx, username, email)
	if err != nil {
		return "", "", err
	}
	if exists {
		l.WarnContext(ctx, "Username or email already taken")
		return "", "", fmt.Errorf("%w: username or email already in use", types.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.repo.CreateUser(ctx, username, email, string(hashed))
	if err != nil {
		return "", "", err
	}

	token, err := s.generateAccessToken(userID.String(), username)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", userID.String()))
	return userID.String(), token, nil
}

// Login authenticates a user by username or email. Unknown identifier and
// wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (string, *types.UserSummary, error) {
	start := time.Now()
	defer s.recordAuth(ctx, "login", start)

	l := s.logger.With(slog.String("method", "Login"))

	if strings.TrimSpace(identifier) == "" || password == "" {
		return "", nil, fmt.Errorf("%w: identifier and password are required", types.ErrValidation)
	}

	user, err := s.repo.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Login attempt for unknown identifier")
			s.countFailure(ctx, "login")
			return "", nil, types.ErrUnauthenticated
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch", slog.String("userID", user.ID.String()))
		s.countFailure(ctx, "login")
		return "", nil, types.ErrUnauthenticated
	}

	token, err := s.generateAccessToken(user.ID.String(), user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	l.InfoContext(ctx, "Login successful", slog.String("userID", user.ID.String()))
	return token, &types.UserSummary{
		ID:                user.ID,
		Username:          user.Username,
		ProfilePictureURL: user.ProfilePictureURL,
	}, nil
}

// generateAccessToken issues a signed, short-lived stateless token. There is
// no server-side session row and no revocation path; the token stays valid
// until its embedded expiry.
func (s *AuthServiceImpl) generateAccessToken(userID, username string) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.Expiration)),
		},
	}
	if s.jwtCfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.jwtCfg.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func (s *AuthServiceImpl) recordAuth(ctx context.Context, op string, start time.Time) {
	if s.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("operation", op))
	s.metrics.AuthRequestsTotal.Add(ctx, 1, attrs)
	s.metrics.AuthDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (s *AuthServiceImpl) countFailure(ctx context.Context, op string) {
	if s.metrics == nil {
		return
	}
	s.metrics.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}
