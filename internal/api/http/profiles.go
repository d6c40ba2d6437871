package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/batcaveos/backend/internal/shared/types"
	"github.com/batcaveos/backend/internal/shared/utils"
)

// ListProfiles lists all profiles
func (h *Handlers) ListProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"profiles": h.shell.Identities().List(),
		"current":  h.shell.Identities().CurrentID(),
	})
}

// CurrentProfile returns the active profile
func (h *Handlers) CurrentProfile(c *gin.Context) {
	p, ok := h.shell.Identities().Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":    p,
		"background": h.shell.Background(),
		"avatar":     h.shell.Avatar(),
	})
}

// GetProfile retrieves a profile by ID
func (h *Handlers) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "profile_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, ok := h.shell.Identities().Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// SwitchProfile makes a profile the active identity
func (h *Handlers) SwitchProfile(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "profile_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.shell.SwitchIdentity(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": p})
}

// UpdateProfile applies a partial profile mutation
func (h *Handlers) UpdateProfile(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "profile_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var update types.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.shell.Identities().UpdateProfile(id, update)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// UpdatePreferences applies a partial preferences mutation
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "profile_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var update types.PreferencesUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.shell.Identities().UpdatePreferences(id, update)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// ListFiles returns a profile's files, with optional filters
func (h *Handlers) ListFiles(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "profile_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		files []types.UserFile
		err   error
	)
	switch {
	case c.Query("favorites") == "true":
		files, err = h.shell.Identities().FavoriteFiles(id)
	case c.Query("recent") != "":
		limit, convErr := strconv.Atoi(c.Query("recent"))
		if convErr != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recent must be a positive integer"})
			return
		}
		files, err = h.shell.Identities().RecentFiles(id, limit)
	default:
		files, err = h.shell.Identities().Files(id, types.FileType(c.Query("type")))
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// AddFile appends a file entry to a profile
func (h *Handlers) AddFile(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "profile_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req types.AddFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.shell.Identities().AddFile(id, types.UserFile{
		Name:    req.Name,
		Type:    req.Type,
		Path:    req.Path,
		Content: req.Content,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": file})
}

// DeleteFile removes a file entry from a profile
func (h *Handlers) DeleteFile(c *gin.Context) {
	id := c.Param("id")
	fileID := c.Param("fileId")
	if err := utils.ValidateID(id, "profile_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.shell.Identities().DeleteFile(id, fileID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleFavorite flips a file's favorite flag
func (h *Handlers) ToggleFavorite(c *gin.Context) {
	id := c.Param("id")
	fileID := c.Param("fileId")
	if err := utils.ValidateID(id, "profile_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.shell.Identities().ToggleFavorite(id, fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": file})
}

// Register creates a new profile with credentials
func (h *Handlers) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.shell.Identities().Register(req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("profile registered", zap.String("username", p.Username))
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// Login verifies credentials and switches to the profile
func (h *Handlers) Login(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.shell.Identities().Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	p, err = h.shell.SwitchIdentity(c.Request.Context(), p.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": p})
}
