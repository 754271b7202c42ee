package records

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medvault-backend/internal/shared/server/respond"
)

// maxUploadBytes caps the multipart payload read into memory.
const maxUploadBytes = 32 << 20

// Handler exposes the records endpoints.
type Handler struct {
	Svc *Service
}

// RegisterRoutes mounts the records routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/records", h.list)
	rg.DELETE("/records/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("medicalFile")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "missing_file", "No file part in the request", nil)
		return
	}

	userID := strings.TrimSpace(c.PostForm("userId"))
	category := strings.TrimSpace(c.PostForm("category"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "missing_user_id", "User ID is required", nil)
		return
	}
	if category == "" {
		respond.Error(c, http.StatusBadRequest, "missing_category", "Category is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "Uploaded file exceeds the size limit", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unreadable_file", "Could not read uploaded file", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unreadable_file", "Could not read uploaded file", nil)
		return
	}

	size := fileHeader.Size
	rec, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		UserID:      userID,
		Category:    category,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   &size,
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "invalid_input", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "upload_failed", err.Error(), nil)
		return
	}

	c.Set("recordId", rec.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded and processed successfully",
		"record":  toResponse(rec),
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "missing_user_id", "User ID is required", nil)
		return
	}

	recs, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "list_failed", "Could not list records", nil)
		return
	}

	out := make([]RecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toListedResponse(rec))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) delete(c *gin.Context) {
	recordID := c.Param("id")
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "missing_user_id", "User ID is required", nil)
		return
	}

	c.Set("recordId", recordID)
	err := h.Svc.Delete(c.Request.Context(), userID, recordID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "record_not_found", "Record not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "Record does not belong to this user", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "delete_failed", "Could not delete record", nil)
	}
}
