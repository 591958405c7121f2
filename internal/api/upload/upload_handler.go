package upload

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/appforum/forum-server/internal/api"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20 // 10 MB

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// UploadHandler accepts multipart image uploads and hands them to the blob
// storage collaborator.
type UploadHandler struct {
	storage Storage
	logger  *slog.Logger
}

func NewUploadHandler(storage Storage, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		logger:  logger,
	}
}

// Upload godoc
// @Summary      Upload a post image
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UploadHandler").Start(r.Context(), "Upload", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/upload"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Upload"))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		l.WarnContext(ctx, "Failed to parse multipart form", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Nenhuma imagem enviada ou arquivo grande demais.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Nenhuma imagem enviada.")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Formato de imagem não suportado.")
		return
	}

	url, err := h.storage.Save(ctx, ext, file)
	if err != nil {
		l.ErrorContext(ctx, "Failed to store upload", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro interno do servidor ao salvar imagem.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]string{
		"message":   "Imagem enviada com sucesso!",
		"image_url": url,
	})
}
