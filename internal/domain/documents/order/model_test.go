package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/types"
)

func TestOrderTotals(t *testing.T) {
	o := New("ACME", "acme@example.com")
	o.AddLine("A1", "Widget", 5, types.MustMoney("2.00"))
	o.AddLine("B2", "Gadget", 2, types.MustMoney("3.50"))

	assert.Equal(t, "10.00", types.FormatAmount(o.Lines[0].LineTotal))
	assert.Equal(t, "7.00", types.FormatAmount(o.Lines[1].LineTotal))
	assert.Equal(t, "17.00", types.FormatAmount(o.Subtotal))
	assert.Equal(t, "17.00", types.FormatAmount(o.Total))

	// Line numbers are sequential.
	assert.Equal(t, 1, o.Lines[0].LineNo)
	assert.Equal(t, 2, o.Lines[1].LineNo)
}

func TestOrderSetLinesRecalculates(t *testing.T) {
	o := New("ACME", "")
	o.AddLine("A1", "Widget", 1, types.MustMoney("1.00"))

	o.SetLines([]Line{
		{SKU: "C3", Name: "Thing", Qty: 3, Price: types.MustMoney("4.00")},
	})

	require.Len(t, o.Lines, 1)
	assert.Equal(t, "12.00", types.FormatAmount(o.Total))
}

func TestOrderValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		o := New("ACME", "")
		o.AddLine("A1", "Widget", 1, types.MustMoney("1.00"))
		assert.NoError(t, o.Validate(ctx))
	})

	t.Run("missing customer", func(t *testing.T) {
		o := New("", "")
		err := o.Validate(ctx)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, []string{"customer"}, appErr.Details["missing"])
	})

	t.Run("all missing fields listed together", func(t *testing.T) {
		o := New("", "")
		o.Date = time.Time{}
		err := o.Validate(ctx)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.ElementsMatch(t, []string{"date", "customer"}, appErr.Details["missing"])
	})

	t.Run("zero qty line", func(t *testing.T) {
		o := New("ACME", "")
		o.Lines = []Line{{SKU: "A1", Name: "Widget", Qty: 0, Price: decimal.Zero}}
		err := o.Validate(ctx)
		require.Error(t, err)
	})

	t.Run("missing sku line", func(t *testing.T) {
		o := New("ACME", "")
		o.Lines = []Line{{Name: "Widget", Qty: 1, Price: decimal.Zero}}
		err := o.Validate(ctx)
		require.Error(t, err)
	})
}

func TestOrderStatusLifecycle(t *testing.T) {
	o := New("ACME", "")

	assert.Equal(t, entity.StatusDraft, o.Status)
	require.NoError(t, o.Transition(entity.StatusConfirmed))
	require.NoError(t, o.Transition(entity.StatusCompleted))
	assert.True(t, o.IsFinal())

	// Completed is terminal.
	err := o.Transition(entity.StatusCancelled)
	require.Error(t, err)

	// Unknown status rejected.
	o2 := New("ACME", "")
	err = o2.Transition("shipped")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
