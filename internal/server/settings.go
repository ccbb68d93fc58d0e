package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vamsi4727/bhanus-studio-billing/internal/audit"
	"github.com/vamsi4727/bhanus-studio-billing/internal/settings"
)

func (s *Server) GetStudioProfile(c *gin.Context) {
	profile, err := s.settingsSvc.Get(c.Request.Context(), settings.ProfileKey)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (s *Server) UpdateStudioProfile(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	if err := s.settingsSvc.Put(ctx, settings.ProfileKey, body); err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSvc.Record(ctx, audit.ActionProfileUpdated, "settings", settings.ProfileKey, nil)

	profile, err := s.settingsSvc.Get(ctx, settings.ProfileKey)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
