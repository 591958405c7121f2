package comment

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/appforum/forum-server/internal/api"
	"github.com/appforum/forum-server/internal/api/auth"
	"github.com/appforum/forum-server/internal/types"
)

// CommentHandler handles HTTP requests for post comments.
type CommentHandler struct {
	commentService CommentService
	logger         *slog.Logger
}

func NewCommentHandler(commentService CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	Message string         `json:"message"`
	Comment *types.Comment `json:"comment"`
}

// ListByPost godoc
// @Summary      List comments of a post, oldest first
// @Produce      json
// @Router       /api/comments/{id} [get]
func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CommentHandler").Start(r.Context(), "ListByPost", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/comments/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListByPost"))

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid post ID format")
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID do post inválido.")
		return
	}

	comments, err := h.commentService.ListByPost(ctx, postID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch comments", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao buscar comentários.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, comments)
}

// Create godoc
// @Summary      Add a comment to a post
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /api/comments/{id} [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CommentHandler").Start(r.Context(), "Create", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/comments/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateComment"))

	callerID, err := auth.CallerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Autenticação necessária.")
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID do post inválido.")
		return
	}

	var req commentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "O conteúdo do comentário não pode ser vazio.")
		return
	}

	created, err := h.commentService.Create(ctx, postID, req.Content, callerID)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "O conteúdo do comentário não pode ser vazio.")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Post não encontrado.")
		default:
			l.ErrorContext(ctx, "Failed to create comment", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao criar comentário.")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, commentResponse{
		Message: "Comentário adicionado com sucesso!",
		Comment: created,
	})
}

// Update godoc
// @Summary      Edit a comment (owner only)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CommentHandler").Start(r.Context(), "Update", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/comments/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdateComment"))

	callerID, err := auth.CallerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Autenticação necessária.")
		return
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID do comentário inválido.")
		return
	}

	var req commentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "O conteúdo do comentário não pode ser vazio.")
		return
	}

	updated, err := h.commentService.Update(ctx, commentID, req.Content, callerID)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Comentário não encontrado.")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Você não tem permissão para editar este comentário.")
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "O conteúdo do comentário não pode ser vazio.")
		default:
			l.ErrorContext(ctx, "Failed to update comment", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao atualizar comentário.")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, commentResponse{
		Message: "Comentário atualizado com sucesso!",
		Comment: updated,
	})
}

// Delete godoc
// @Summary      Delete a comment (owner only)
// @Produce      json
// @Security     BearerAuth
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CommentHandler").Start(r.Context(), "Delete", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/comments/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "DeleteComment"))

	callerID, err := auth.CallerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Autenticação necessária.")
		return
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID do comentário inválido.")
		return
	}

	if err := h.commentService.Delete(ctx, commentID, callerID); err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Comentário não encontrado.")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Você não tem permissão para excluir este comentário.")
		default:
			l.ErrorContext(ctx, "Failed to delete comment", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao excluir comentário.")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"message": "Comentário excluído com sucesso!",
	})
}
