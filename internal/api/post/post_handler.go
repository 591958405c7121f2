package post

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/appforum/forum-server/internal/api"
	"github.com/appforum/forum-server/internal/api/auth"
	"github.com/appforum/forum-server/internal/types"
)

// PostHandler handles HTTP requests for forum posts.
type PostHandler struct {
	postService PostService
	logger      *slog.Logger
}

func NewPostHandler(postService PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

type postResponse struct {
	Message string      `json:"message"`
	Post    *types.Post `json:"post"`
}

type toggleResponse struct {
	Message string `json:"message"`
	Active  bool   `json:"active"`
}

// List godoc
// @Summary      List posts, newest first
// @Produce      json
// @Router       /api/posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PostHandler").Start(r.Context(), "List", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/posts"),
	))
	defer span.End()

	posts, err := h.postService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch posts", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao buscar posts.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, posts)
}

// Get godoc
// @Summary      Fetch a single post with author and counts
// @Produce      json
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PostHandler").Start(r.Context(), "Get", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/posts/{id}"),
	))
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID do post inválido.")
		return
	}

	post, err := h.postService.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post não encontrado.")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao buscar post.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// Create godoc
// @Summary      Create a post
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /api/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PostHandler").Start(r.Context(), "Create", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/posts"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreatePost"))

	callerID, err := auth.CallerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Autenticação necessária.")
		return
	}

	var params types.CreatePostParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Título e conteúdo são obrigatórios.")
		return
	}

	created, err := h.postService.Create(ctx, callerID, params)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Título e conteúdo são obrigatórios.")
			return
		}
		l.ErrorContext(ctx, "Failed to create post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao criar post.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, postResponse{
		Message: "Post criado com sucesso!",
		Post:    created,
	})
}

// Update godoc
// @Summary      Edit a post (owner only)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PostHandler").Start(r.Context(), "Update", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/posts/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdatePost"))

	callerID, err := auth.CallerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Autenticação necessária.")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID do post inválido.")
		return
	}

	var params types.UpdatePostParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Título e conteúdo são obrigatórios.")
		return
	}

	updated, err := h.postService.Update(ctx, id, params, callerID)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Post não encontrado.")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Você não tem permissão para editar este post.")
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Título e conteúdo são obrigatórios.")
		default:
			l.ErrorContext(ctx, "Failed to update post", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao atualizar post.")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, postResponse{
		Message: "Post atualizado com sucesso!",
		Post:    updated,
	})
}

// Delete godoc
// @Summary      Delete a post (owner only)
// @Produce      json
// @Security     BearerAuth
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PostHandler").Start(r.Context(), "Delete", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/posts/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "DeletePost"))

	callerID, err := auth.CallerID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Autenticação necessária.")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID do post inválido.")
		return
	}

	if err := h.postService.Delete(ctx, id, callerID); err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Post não encontrado.")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Você não tem permissão para excluir este post.")
		default:
			l.ErrorContext(ctx, "Failed to delete post", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao excluir post.")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"message": "Post excluído com sucesso!",
	})
}

// ToggleLike godoc
// @Summary      Like or unlike a post
// @Produce      json
// @Security     BearerAuth
// @Router       /api/posts/{id}/like [post]
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "like")
}

// ToggleFavorite godoc
// @Summary      Favorite or unfavorite a post
// @Produce      json
// @Security     BearerAuth
// @Router       /api/posts/{id}/favorite [post]
func (h *PostHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "favorite")
}

func (h *PostHandler) toggle(w http.ResponseWriter, r *http.Request, kind string) {
	ctx, span := otel.Tracer("PostHandler").Start(r.Context(), "Toggle", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/posts/{id}/"+kind),
	))
	defer span.End()

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

	var active bool
	if kind == "like" {
		active, err = h.postService.ToggleLike(ctx, postID, callerID)
	} else {
		active, err = h.postService.ToggleFavorite(ctx, postID, callerID)
	}
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post não encontrado.")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to toggle", slog.String("kind", kind), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, toggleResponse{
		Message: "Operação realizada com sucesso!",
		Active:  active,
	})
}
