// Package tabsync propagates mutation events between concurrently running
// instances of the app on the same machine. Delivery is best-effort and
// at-most-once: nothing is persisted beyond a short spool window, so an
// instance started after a broadcast simply misses it. When the transport
// cannot be set up the manager degrades to safe no-ops; the app keeps
// working without cross-instance sync.
package tabsync

import (
	"time"

	"github.com/goccy/go-json"
)

// Kind is the closed vocabulary of mutation events.
type Kind string

const (
	KindEntryAdded      Kind = "entry:added"
	KindEntryUpdated    Kind = "entry:updated"
	KindEntryDeleted    Kind = "entry:deleted"
	KindEntriesImported Kind = "entries:imported"
	KindCategoryChanged Kind = "category:changed"
	KindSettingsChanged Kind = "settings:changed"
	KindBackupCreated   Kind = "backup:created"
	KindStateRestored   Kind = "state:restored"
)

// validKinds guards the wire boundary; unknown kinds are dropped on
// receipt rather than dispatched.
var validKinds = map[Kind]bool{
	KindEntryAdded:      true,
	KindEntryUpdated:    true,
	KindEntryDeleted:    true,
	KindEntriesImported: true,
	KindCategoryChanged: true,
	KindSettingsChanged: true,
	KindBackupCreated:   true,
	KindStateRestored:   true,
}

// Message is the wire schema for one mutation notification.
type Message struct {
	Kind      Kind            `json:"kind"`
	Data      json.RawMessage `json:"data,omitempty"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// Handler consumes messages for one subscribed kind.
type Handler func(Message)
