package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/batcaveos/backend/internal/uploads"
)

// Upload stores a themed asset for the active identity and refreshes
// the desktop so the new asset takes effect immediately.
func (h *Handlers) Upload(c *gin.Context) {
	slot := uploads.Slot(c.Param("slot"))

	identityID := c.PostForm("userId")
	if identityID == "" {
		identityID = h.shell.Identities().CurrentID()
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if fileHeader.Size > uploads.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, uploads.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	upload, err := uploads.Validate(slot, identityID, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.store.Upload(c.Request.Context(), upload.Bucket, upload.Path, upload.Data, upload.ContentType)
	if err != nil {
		h.logger.Error("upload failed",
			zap.String("slot", string(slot)),
			zap.String("bucket", upload.Bucket),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	h.metrics.RecordUpload(int64(len(upload.Data)))

	// Uploads for the active identity change what the desktop shows.
	if identityID == h.shell.Identities().CurrentID() {
		h.shell.RefreshAssets(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"slot":    slot,
		"bucket":  upload.Bucket,
		"path":    upload.Path,
		"url":     url,
	})
}
