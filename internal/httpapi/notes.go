package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpl-au/kbase/internal/store"
)

type noteRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	FolderID *string  `json:"folder_id"`
	Favorite bool     `json:"is_favorite"`
}

type notePatchRequest struct {
	Title       *string   `json:"title"`
	Body        *string   `json:"body"`
	Tags        *[]string `json:"tags"`
	FolderID    *string   `json:"folder_id"`
	ClearFolder bool      `json:"clear_folder"`
	Favorite    *bool     `json:"is_favorite"`
	Archived    *bool     `json:"is_archived"`
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string) (*bool, error) {
	v, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", errBadRequest, name)
	}
	return &b, nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(c *gin.Context, name string) (int, error) {
	v, ok := c.GetQuery(name)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return n, nil
}

func queryString(c *gin.Context, name string) *string {
	if v, ok := c.GetQuery(name); ok && v != "" {
		return &v
	}
	return nil
}

func parseArchived(s string) (store.Archived, error) {
	switch s {
	case "", "exclude":
		return store.ArchivedExclude, nil
	case "only":
		return store.ArchivedOnly, nil
	case "all":
		return store.ArchivedAll, nil
	}
	return 0, fmt.Errorf("%w: archived must be exclude, only or all", errBadRequest)
}

func notesJSON(notes []store.Note) []store.NoteJSON {
	out := make([]store.NoteJSON, len(notes))
	for i := range notes {
		out[i] = notes[i].ToJSON(false)
	}
	return out
}

func (s *Server) listNotes(c *gin.Context) {
	var opts store.ListOptions
	var err error

	if opts.Favorite, err = queryBool(c, "favorite"); err != nil {
		fail(c, err)
		return
	}
	if opts.Archived, err = parseArchived(c.Query("archived")); err != nil {
		fail(c, err)
		return
	}
	if opts.Limit, err = queryInt(c, "limit"); err != nil {
		fail(c, err)
		return
	}
	if opts.Offset, err = queryInt(c, "offset"); err != nil {
		fail(c, err)
		return
	}
	opts.FolderID = queryString(c, "folder_id")
	opts.Tag = c.Query("tag")

	notes, err := s.svc.ListNotes(c.Request.Context(), userID(c), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notesJSON(notes)})
}

func (s *Server) createNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	n, err := s.svc.CreateNote(c.Request.Context(), userID(c), store.NoteInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, n.ToJSON(true))
}

func (s *Server) getNote(c *gin.Context) {
	n, err := s.svc.Note(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n.ToJSON(true))
}

func (s *Server) updateNote(c *gin.Context) {
	var req notePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	n, err := s.svc.UpdateNote(c.Request.Context(), userID(c), c.Param("id"), store.NotePatch(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n.ToJSON(true))
}

func (s *Server) deleteNote(c *gin.Context) {
	if err := s.svc.DeleteNote(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
