package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/store"
)

// search runs GET /search?q=...&folder_id=...&tags=a&tags=b&favorite=...
// A blank query is answered with an empty result, not an error.
func (s *Server) search(c *gin.Context) {
	req := search.Request{
		UserID: userID(c),
		Query:  c.Query("q"),
		Filter: search.Filter{
			FolderID: queryString(c, "folder_id"),
			Tags:     c.QueryArray("tags"),
		},
	}
	var err error
	if req.Filter.Favorite, err = queryBool(c, "favorite"); err != nil {
		fail(c, err)
		return
	}
	if req.Limit, err = queryInt(c, "limit"); err != nil {
		fail(c, err)
		return
	}

	resp, err := s.svc.Search(c.Request.Context(), req)
	if err != nil && !errors.Is(err, search.ErrInvalidQuery) {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": notesJSON(resp.Results),
		"total":   resp.Total,
		"query":   resp.Query,
	})
}

func (s *Server) history(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		fail(c, err)
		return
	}
	entries, err := s.svc.History(c.Request.Context(), userID(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
