// Package stock provides the stock movement register.
// The register is the single source of truth for product quantities:
// current stock is always the signed sum of movements, never a cached column.
package stock

import (
	"time"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
)

// Movement is one immutable line in the stock register.
type Movement struct {
	entity.MovementBase

	// ProductID references the product (dimension)
	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity is always positive, direction comes from RecordType
	Quantity int64 `db:"quantity" json:"quantity"`

	// User is the login of the actor who recorded the movement
	User string `db:"user_login" json:"user"`
}

// NewMovement creates a movement line with generated LineID.
func NewMovement(productID id.ID, recordType entity.RecordType, quantity int64, user string) Movement {
	return Movement{
		MovementBase: entity.NewMovementBase(nil, "Adjustment", time.Now().UTC(), recordType),
		ProductID:    productID,
		Quantity:     quantity,
		User:         user,
	}
}

// NewDocumentMovement creates a movement line recorded by a document.
func NewDocumentMovement(recorderID id.ID, recorderType string, productID id.ID, recordType entity.RecordType, quantity int64, user string) Movement {
	return Movement{
		MovementBase: entity.NewMovementBase(&recorderID, recorderType, time.Now().UTC(), recordType),
		ProductID:    productID,
		Quantity:     quantity,
		User:         user,
	}
}

// SignedQuantity returns quantity with sign based on record type.
// IN = positive, OUT = negative.
func (m *Movement) SignedQuantity() int64 {
	if m.RecordType == entity.RecordTypeOut {
		return -m.Quantity
	}
	return m.Quantity
}
