package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpl-au/kbase/internal/folder"
	"github.com/jpl-au/kbase/internal/store"
)

type folderRequest struct {
	Name        string  `json:"name"`
	ParentID    *string `json:"parent_id"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
}

type folderPatchRequest struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
}

// folderTree answers with the repaired tree. Severed cycles are reported
// in a warning field alongside a 200.
func (s *Server) folderTree(c *gin.Context) {
	t, err := s.svc.FolderTree(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	roots := t.Roots
	if roots == nil {
		roots = []*folder.Node{}
	}
	body := gin.H{"roots": roots}
	if w := t.Err(); w != nil {
		body["warning"] = w.Error()
		body["cycles"] = t.Cycles
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) createFolder(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	f, err := s.svc.CreateFolder(c.Request.Context(), userID(c), store.FolderInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, f.ToJSON())
}

func (s *Server) updateFolder(c *gin.Context) {
	var req folderPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	f, err := s.svc.UpdateFolder(c.Request.Context(), userID(c), c.Param("id"), store.FolderPatch(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f.ToJSON())
}

func (s *Server) deleteFolder(c *gin.Context) {
	if err := s.svc.DeleteFolder(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
