package entity

import (
	"context"
	"time"

	"stockroom/internal/core/apperror"
)

// Status is the lifecycle state of a business document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is a known document status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// allowed status transitions, keyed by current status
var statusTransitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a document may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Document is the base type for business transactions.
// Examples: Order, Sale.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID in draft status.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		Status:       StatusDraft,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	if !ValidStatus(d.Status) {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(d.Status))
	}

	return nil
}

// Transition moves the document to a new status, enforcing the lifecycle.
func (d *Document) Transition(to Status) error {
	if !ValidStatus(to) {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(to))
	}
	if !CanTransition(d.Status, to) {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"status transition not allowed",
		).WithDetail("from", string(d.Status)).WithDetail("to", string(to))
	}
	d.Status = to
	d.Touch()
	return nil
}

// IsFinal reports whether the document has reached a terminal status.
func (d *Document) IsFinal() bool {
	return d.Status == StatusCompleted || d.Status == StatusCancelled
}
