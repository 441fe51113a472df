package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpl-au/kbase/internal/tag"
)

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) listTags(c *gin.Context) {
	views, err := s.svc.Tags(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if views == nil {
		views = []tag.View{}
	}
	c.JSON(http.StatusOK, gin.H{"tags": views})
}

func (s *Server) createTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	t, err := s.svc.CreateTag(c.Request.Context(), userID(c), req.Name, req.Color)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag.View{
		ID:         t.ID,
		Name:       t.Name,
		Color:      t.Color,
		CreatedAt:  t.CreatedAt,
		Registered: true,
	})
}

func (s *Server) deleteTag(c *gin.Context) {
	if err := s.svc.DeleteTag(c.Request.Context(), userID(c), c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) formaliseTags(c *gin.Context) {
	created, err := s.svc.FormaliseTags(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	names := make([]string, len(created))
	for i, t := range created {
		names[i] = t.Name
	}
	c.JSON(http.StatusOK, gin.H{"registered": names})
}

func (s *Server) attachTag(c *gin.Context) {
	if err := s.svc.AttachTag(c.Request.Context(), userID(c), c.Param("name"), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) detachTag(c *gin.Context) {
	if err := s.svc.DetachTag(c.Request.Context(), userID(c), c.Param("name"), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
