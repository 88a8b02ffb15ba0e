// Package activity provides the append-only activity log with an
// anti-flood dedup guard.
package activity

import (
	"encoding/json"
	"time"

	"stockroom/internal/core/id"
)

// Entry is one activity log record.
type Entry struct {
	ID id.ID `db:"id" json:"id"`

	// User is the actor login
	User string `db:"user_login" json:"user"`

	// Action is a free-text description of what happened
	Action string `db:"action" json:"action"`

	// Details carries optional structured payload (entity ids, diffs)
	Details json.RawMessage `db:"details" json:"details,omitempty"`

	// Time is when the action happened
	Time time.Time `db:"time" json:"time"`
}

// NewEntry creates an entry with generated ID.
func NewEntry(user, action string, details json.RawMessage, at time.Time) Entry {
	return Entry{
		ID:      id.New(),
		User:    user,
		Action:  action,
		Details: details,
		Time:    at,
	}
}
