// Package entity provides core domain entities.
package entity

import (
	"time"

	"stockroom/internal/core/id"
)

// RecordType defines movement direction for the stock register.
type RecordType string

const (
	// RecordTypeIn increases balance
	RecordTypeIn RecordType = "IN"
	// RecordTypeOut decreases balance
	RecordTypeOut RecordType = "OUT"
)

// ValidRecordType reports whether t is a known movement direction.
func ValidRecordType(t RecordType) bool {
	return t == RecordTypeIn || t == RecordTypeOut
}

// MovementBase contains common fields for all register movements.
// Movements are immutable - they are never updated or deleted.
type MovementBase struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement (nullable for
	// manual adjustments)
	RecorderID *id.ID `db:"recorder_id" json:"recorderId,omitempty"`

	// RecorderType is the document type (e.g., "Sale", "Adjustment")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// Period is the business date for the movement (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// RecordType: IN or OUT
	RecordType RecordType `db:"record_type" json:"recordType"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementBase creates a new movement base with generated LineID.
func NewMovementBase(recorderID *id.ID, recorderType string, period time.Time, recordType RecordType) MovementBase {
	return MovementBase{
		LineID:       id.New(),
		RecorderID:   recorderID,
		RecorderType: recorderType,
		Period:       period,
		RecordType:   recordType,
		CreatedAt:    time.Now().UTC(),
	}
}
