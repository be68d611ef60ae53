package upload

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tourdesk/utils"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type Handler struct {
	uploader Uploader
	maxBytes int64
	log      *slog.Logger
}

func NewHandler(uploader Uploader, maxBytes int64, log *slog.Logger) *Handler {
	return &Handler{uploader: uploader, maxBytes: maxBytes, log: log}
}

type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// POST /api/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.RespondWithError(w, http.StatusRequestEntityTooLarge, ErrFileTooLarge.Error())
			return
		}
		utils.RespondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		utils.RespondWithError(w, http.StatusRequestEntityTooLarge, ErrFileTooLarge.Error())
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	if int64(len(data)) > h.maxBytes {
		utils.RespondWithError(w, http.StatusRequestEntityTooLarge, ErrFileTooLarge.Error())
		return
	}

	contentType, _, err := DetectType(data)
	if err != nil {
		h.reject(w, err)
		return
	}
	data, contentType, ext, err := Downscale(data, contentType)
	if err != nil {
		if errors.Is(err, ErrInvalidMIME) || errors.Is(err, ErrTooManyPixels) {
			h.reject(w, err)
			return
		}
		h.log.ErrorContext(r.Context(), "image processing failed", "filename", header.Filename, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	key := "uploads/" + utils.GetUUID() + ext
	url, err := h.uploader.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		h.log.ErrorContext(r.Context(), "upload to storage failed", "key", key, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	h.log.InfoContext(r.Context(), "file uploaded", "key", key, "size", len(data), "type", contentType)
	utils.RespondWithJSON(w, http.StatusCreated, Result{
		URL:         url,
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
	})
}

func (h *Handler) reject(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyFile):
		utils.RespondWithError(w, http.StatusBadRequest, "File is empty")
	case errors.Is(err, ErrTooManyPixels):
		utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "Image dimensions are too large")
	default:
		utils.RespondWithError(w, http.StatusUnsupportedMediaType, "Only JPEG, PNG, WebP and GIF images are allowed")
	}
}
