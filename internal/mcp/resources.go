// resources.go implements MCP resource handlers for note access.
//
// MCP resources provide read-only access to notes via URI, letting clients
// load a note into context without a tool call.
//
// Design: Resource URIs follow kbase://notes/{id}. The content is the note
// body as markdown, the same bytes `kbase cat` prints with --raw.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyID indicates a missing note id in a resource URI.
	ErrEmptyID = errors.New("empty note id")
)

const notePrefix = "kbase://notes/"

// readNoteResource handles kbase://notes/{id} resource requests.
func (h *handlers) readNoteResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}
	if h.user == "" {
		return nil, errors.New(ErrNoUser)
	}

	uri := req.Params.URI
	id, err := parseNoteURI(uri)
	if err != nil {
		return nil, err
	}

	n, err := h.svc.Note(ctx, h.user, id)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     n.Body,
		},
	}, nil
}

// parseNoteURI extracts the note id from kbase://notes/{id}.
func parseNoteURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, notePrefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	id := strings.TrimPrefix(uri, notePrefix)
	if id == "" {
		return "", ErrEmptyID
	}
	if strings.Contains(id, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return id, nil
}
