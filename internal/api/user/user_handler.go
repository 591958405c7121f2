package user

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/appforum/forum-server/internal/api"
	"github.com/appforum/forum-server/internal/api/auth"
	"github.com/appforum/forum-server/internal/types"
)

// UserHandler handles HTTP requests for the authenticated user's profile.
type UserHandler struct {
	userService UserService
	logger      *slog.Logger
}

func NewUserHandler(userService UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetMe godoc
// @Summary      Current user's profile
// @Produce      json
// @Security     BearerAuth
// @Router       /api/users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "GetMe", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/users/me"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetMe"))

	callerID, err := auth.CallerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Autenticação necessária.")
		return
	}

	profile, err := h.userService.GetMe(ctx, callerID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Usuário não encontrado.")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /api/users/me [put]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "UpdateMe", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/users/me"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdateMe"))

	callerID, err := auth.CallerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Autenticação necessária.")
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	profile, err := h.userService.UpdateMe(ctx, callerID, params)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Usuário não encontrado.")
			return
		}
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}
