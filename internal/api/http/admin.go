package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/batcaveos/backend/internal/shared/types"
	"github.com/batcaveos/backend/internal/shared/utils"
)

// RequireAdminKey gates maintenance endpoints behind the setup key.
// When no key is configured the endpoints are disabled outright.
func (h *Handlers) RequireAdminKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.adminKey == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "admin endpoints disabled"})
			return
		}

		var req types.AdminRequest
		if err := c.ShouldBindBodyWithJSON(&req); err != nil || req.AdminKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.adminKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}

// bindAdmin re-reads the cached request body as an admin envelope.
func bindAdmin(c *gin.Context) (types.AdminRequest, bool) {
	var req types.AdminRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

// SetupBuckets creates all storage buckets
func (h *Handlers) SetupBuckets(c *gin.Context) {
	results := h.provisioner.EnsureBuckets(c.Request.Context())
	h.logger.Info("bucket setup completed", zap.Int("actions", len(results)))
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// MakeBucketsPublic flips all user-asset buckets to public
func (h *Handlers) MakeBucketsPublic(c *gin.Context) {
	results := h.provisioner.MakeBucketsPublic(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// CreateUsers syncs seeded profiles into the records backend
func (h *Handlers) CreateUsers(c *gin.Context) {
	results := h.provisioner.EnsureIdentities(c.Request.Context())
	h.logger.Info("identity sync completed", zap.Int("actions", len(results)))
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// AdminRefreshAssets drops cached asset resolutions
func (h *Handlers) AdminRefreshAssets(c *gin.Context) {
	req, ok := bindAdmin(c)
	if !ok {
		return
	}

	results := h.provisioner.RefreshAssets(req.UserID)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// AdminDeleteFile removes one stored object
func (h *Handlers) AdminDeleteFile(c *gin.Context) {
	req, ok := bindAdmin(c)
	if !ok {
		return
	}
	if req.Bucket == "" || req.FilePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bucket and filePath are required"})
		return
	}

	results := h.provisioner.DeleteFile(c.Request.Context(), req.Bucket, req.FilePath)
	for _, r := range results {
		if !r.Success {
			c.JSON(http.StatusInternalServerError, gin.H{"results": results})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// AdminListUserFiles enumerates one identity's stored objects
func (h *Handlers) AdminListUserFiles(c *gin.Context) {
	req, ok := bindAdmin(c)
	if !ok {
		return
	}
	if err := utils.ValidateID(req.UserID, "userId", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	objects, err := h.provisioner.ListUserFiles(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": objects, "count": len(objects)})
}

// AdminExportUserFiles streams one identity's objects as a tarball
func (h *Handlers) AdminExportUserFiles(c *gin.Context) {
	req, ok := bindAdmin(c)
	if !ok {
		return
	}
	if err := utils.ValidateID(req.UserID, "userId", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/gzip")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", req.UserID+"-files.tar.gz"))

	if err := h.provisioner.ExportUserFiles(c.Request.Context(), req.UserID, c.Writer); err != nil {
		// Headers are already out; the truncated stream is the signal.
		h.logger.Error("user file export failed",
			zap.String("user_id", req.UserID),
			zap.Error(err))
	}
}

// AdminConfigurePolicy updates one bucket's visibility
func (h *Handlers) AdminConfigurePolicy(c *gin.Context) {
	req, ok := bindAdmin(c)
	if !ok {
		return
	}
	if req.Bucket == "" || req.Public == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bucket and public are required"})
		return
	}

	results := h.provisioner.ConfigurePolicy(c.Request.Context(), req.Bucket, *req.Public)
	for _, r := range results {
		if !r.Success {
			c.JSON(http.StatusInternalServerError, gin.H{"results": results})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
