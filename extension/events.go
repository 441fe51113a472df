// events.go defines the event types for extension notifications.
//
// Separated from extension.go to isolate the event system. Events let
// extensions react to note, tag, folder and search activity without
// modifying core logic.
//
// Design: Events are fire-and-forget notifications, not approval requests.
// Extensions cannot block or veto operations via events; they observe after
// the fact.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventNoteCreate   EventType = "note:create"
	EventNoteUpdate   EventType = "note:update"
	EventNoteDelete   EventType = "note:delete"
	EventTagAdd       EventType = "tag:add"
	EventTagRemove    EventType = "tag:remove"
	EventFolderCreate EventType = "folder:create"
	EventFolderUpdate EventType = "folder:update"
	EventFolderDelete EventType = "folder:delete"
	EventSearch       EventType = "search"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	// EventUser is the user the operation was performed for.
	EventUser() string
	// EventTarget is the id of the affected entity, or the query for searches.
	EventTarget() string
}

// NoteWriteEvent is fired after a note is created or updated.
type NoteWriteEvent struct {
	UserID  string
	NoteID  string
	Title   string
	Body    string
	Tags    []string
	Created bool
}

func (e NoteWriteEvent) EventType() EventType {
	if e.Created {
		return EventNoteCreate
	}
	return EventNoteUpdate
}
func (e NoteWriteEvent) EventUser() string   { return e.UserID }
func (e NoteWriteEvent) EventTarget() string { return e.NoteID }

// NoteDeleteEvent is fired after a note is deleted.
type NoteDeleteEvent struct {
	UserID string
	NoteID string
}

func (e NoteDeleteEvent) EventType() EventType { return EventNoteDelete }
func (e NoteDeleteEvent) EventUser() string    { return e.UserID }
func (e NoteDeleteEvent) EventTarget() string  { return e.NoteID }

// TagEvent is fired when a registry tag is attached to or detached from a
// note. NoteID is empty when the tag itself was created or deleted.
type TagEvent struct {
	UserID string
	Tag    string
	NoteID string
	Added  bool
}

func (e TagEvent) EventType() EventType {
	if e.Added {
		return EventTagAdd
	}
	return EventTagRemove
}
func (e TagEvent) EventUser() string { return e.UserID }
func (e TagEvent) EventTarget() string {
	if e.NoteID != "" {
		return e.NoteID
	}
	return e.Tag
}

// FolderEvent is fired after a folder is created, updated or deleted.
type FolderEvent struct {
	UserID   string
	FolderID string
	Name     string
	Type     EventType // one of the EventFolder* constants
}

func (e FolderEvent) EventType() EventType { return e.Type }
func (e FolderEvent) EventUser() string    { return e.UserID }
func (e FolderEvent) EventTarget() string  { return e.FolderID }

// SearchEvent is fired after a successful search.
type SearchEvent struct {
	UserID string
	Query  string
	Total  int
}

func (e SearchEvent) EventType() EventType { return EventSearch }
func (e SearchEvent) EventUser() string    { return e.UserID }
func (e SearchEvent) EventTarget() string  { return e.Query }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
