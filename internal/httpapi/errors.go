package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpl-au/kbase/internal/ai"
	"github.com/jpl-au/kbase/internal/auth"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/plugin"
	"github.com/jpl-au/kbase/internal/privacy"
	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/jpl-au/kbase/internal/validate"
)

// errBadRequest marks malformed input caught by the handlers themselves.
var errBadRequest = errors.New("bad request")

// status maps a service error onto an HTTP status and optional stable code.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, ""
	case errors.Is(err, privacy.ErrAIDisabled):
		return http.StatusForbidden, privacy.Code
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ""
	case errors.Is(err, store.ErrAlreadyExists), errors.Is(err, note.ErrFolderNotEmpty):
		return http.StatusConflict, ""
	case errors.Is(err, note.ErrFolderCycle):
		return http.StatusUnprocessableEntity, ""
	case errors.Is(err, search.ErrUnavailable):
		return http.StatusServiceUnavailable, ""
	case errors.Is(err, ai.ErrNoAssistant):
		return http.StatusNotImplemented, ""
	case errors.Is(err, errBadRequest),
		errors.Is(err, ai.ErrUnknownAction),
		errors.Is(err, plugin.ErrInvalidManifest),
		errors.Is(err, validate.ErrInvalidTitle),
		errors.Is(err, validate.ErrInvalidTag),
		errors.Is(err, validate.ErrInvalidFolder),
		errors.Is(err, validate.ErrInvalidColor),
		errors.Is(err, validate.ErrContentTooLarge):
		return http.StatusBadRequest, ""
	}
	return http.StatusInternalServerError, ""
}

// fail records err on the context and writes the JSON error response.
// Internal errors are not echoed to the client.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	code, tag := status(err)
	body := gin.H{"error": err.Error()}
	if code == http.StatusInternalServerError {
		body["error"] = "internal error"
	}
	if tag != "" {
		body["code"] = tag
	}
	c.AbortWithStatusJSON(code, body)
}
