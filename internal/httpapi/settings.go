package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpl-au/kbase/internal/ai"
	"github.com/jpl-au/kbase/internal/plugin"
	"github.com/jpl-au/kbase/internal/store"
)

func (s *Server) getPrivacy(c *gin.Context) {
	p, err := s.svc.Privacy(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// setPrivacy replaces all four flags; an omitted flag is false.
func (s *Server) setPrivacy(c *gin.Context) {
	var p store.Privacy
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := s.svc.SetPrivacy(c.Request.Context(), userID(c), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type assistRequest struct {
	NoteID string `json:"note_id"`
}

func (s *Server) assist(c *gin.Context) {
	action, err := ai.ParseAction(c.Param("action"))
	if err != nil {
		fail(c, err)
		return
	}
	var req assistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NoteID == "" {
		fail(c, fmt.Errorf("%w: note_id is required", errBadRequest))
		return
	}

	out, err := s.svc.Assist(c.Request.Context(), userID(c), action, req.NoteID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action, "result": out})
}

func (s *Server) listPlugins(c *gin.Context) {
	plugins, err := s.svc.Plugins(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if plugins == nil {
		plugins = []store.Plugin{}
	}
	c.JSON(http.StatusOK, gin.H{"plugins": plugins})
}

// installPlugin reads a YAML manifest from the request body. Pass
// ?enabled=true to enable it on install.
func (s *Server) installPlugin(c *gin.Context) {
	enabled, err := queryBool(c, "enabled")
	if err != nil {
		fail(c, err)
		return
	}
	m, err := plugin.Parse(c.Request.Body)
	if err != nil {
		fail(c, err)
		return
	}

	p, err := s.svc.InstallPlugin(c.Request.Context(), userID(c), m, enabled != nil && *enabled)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) togglePlugin(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		fail(c, fmt.Errorf("%w: enabled is required", errBadRequest))
		return
	}

	p, err := s.svc.SetPluginEnabled(c.Request.Context(), userID(c), c.Param("name"), *req.Enabled)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) removePlugin(c *gin.Context) {
	if err := s.svc.RemovePlugin(c.Request.Context(), userID(c), c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
