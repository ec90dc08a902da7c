package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"buchladen-backend/internal/domains/buch/model"
	"buchladen-backend/internal/domains/buch/service"
	"buchladen-backend/internal/shared/response"
	"buchladen-backend/pkg/logger"
)

// FileHandler serves upload and download of the single attachment of a
// buch.
type FileHandler struct {
	files service.FileService
}

func NewFileHandler(files service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Upload handles PUT /buecher/:id/file. The request body is handed to
// storage as a stream; nothing is buffered beyond the transfer chunks.
func (h *FileHandler) Upload(c *gin.Context) {
	id := c.Param("id")

	contentType := c.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stored, err := h.files.Save(c.Request.Context(), id, c.Request.Body, c.Request.ContentLength, contentType)
	if err != nil {
		logger.Error("file upload failed", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if !stored {
		response.Text(c, http.StatusNotFound, "no buch with id "+id)
		return
	}

	c.Status(http.StatusNoContent)
}

// Download handles GET /buecher/:id/file and pipes the stored blob to
// the client with its original content type.
func (h *FileHandler) Download(c *gin.Context) {
	id := c.Param("id")

	content, err := h.files.Find(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBuchNotFound), errors.Is(err, model.ErrFileNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, model.ErrMultipleFiles):
			logger.Error("file store integrity violation", err)
			response.Text(c, http.StatusInternalServerError, "more than one file stored for this id")
		default:
			logger.Error("file download failed", err)
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	defer content.Reader.Close()

	c.DataFromReader(http.StatusOK, content.Size, content.ContentType, content.Reader, nil)
}
