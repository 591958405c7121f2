package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/appforum/forum-server/internal/api"
	"github.com/appforum/forum-server/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authService: authService,
	}
}

// Register godoc
// @Summary      Register a new user
// @Accept       json
// @Produce      json
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/register"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Todos os campos são obrigatórios: username, email, password.")
		return
	}

	userID, token, err := h.authService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Todos os campos são obrigatórios: username, email, password.")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Nome de usuário ou e-mail já está em uso.")
		default:
			l.ErrorContext(ctx, "Register failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao registrar usuário.")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, RegisterResponse{
		Message: "Usuário registrado com sucesso!",
		UserID:  userID,
		Token:   token,
	})
}

// Login godoc
// @Summary      Authenticate with username or email
// @Accept       json
// @Produce      json
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/login"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Identificador (username ou email) e senha são obrigatórios.")
		return
	}

	token, user, err := h.authService.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Identificador (username ou email) e senha são obrigatórios.")
		case errors.Is(err, types.ErrUnauthenticated):
			// Identical shape for unknown identifier and wrong password.
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Credenciais inválidas.")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao fazer login.")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		Message: "Login bem-sucedido!",
		Token:   token,
		User:    *user,
	})
}

// CallerID resolves the authenticated caller's id from the request context.
// Handlers behind Authenticate use this instead of re-parsing the token.
func CallerID(r *http.Request) (uuid.UUID, error) {
	idStr, ok := GetUserIDFromContext(r.Context())
	if !ok || idStr == "" {
		return uuid.Nil, types.ErrUnauthenticated
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, types.ErrUnauthenticated
	}
	return id, nil
}
