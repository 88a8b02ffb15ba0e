package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("plain prefix", func(t *testing.T) {
		cfg := DefaultConfig("ORD")
		assert.Equal(t, "ORD-00001", cfg.FormatNumber(period, 1))
		assert.Equal(t, "ORD-00042", cfg.FormatNumber(period, 42))
		assert.Equal(t, "ORD-123456", cfg.FormatNumber(period, 123456))
	})

	t.Run("with year", func(t *testing.T) {
		cfg := Config{Prefix: "SAL", IncludeYear: true, PadWidth: 5}
		assert.Equal(t, "SAL-2026-00007", cfg.FormatNumber(period, 7))
	})

	t.Run("zero pad width falls back to five", func(t *testing.T) {
		cfg := Config{Prefix: "ORD"}
		assert.Equal(t, "ORD-00003", cfg.FormatNumber(period, 3))
	})
}

func TestSequenceKey(t *testing.T) {
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD", DefaultConfig("ORD").SequenceKey(period))
	assert.Equal(t, "SAL-2026", Config{Prefix: "SAL", IncludeYear: true}.SequenceKey(period))
}

func TestMockGeneratorSequential(t *testing.T) {
	ctx := context.Background()
	period := time.Now()
	gen := &MockGenerator{}
	cfg := DefaultConfig("ORD")

	first, err := gen.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	second, err := gen.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)

	assert.Equal(t, "ORD-00001", first)
	assert.Equal(t, "ORD-00002", second)

	// Independent sequence per prefix.
	other, err := gen.GetNextNumber(ctx, DefaultConfig("SAL"), period)
	require.NoError(t, err)
	assert.Equal(t, "SAL-00001", other)
}

func TestMockGeneratorSetNextNumber(t *testing.T) {
	ctx := context.Background()
	period := time.Now()
	gen := &MockGenerator{}
	cfg := DefaultConfig("ORD")

	require.NoError(t, gen.SetNextNumber(ctx, cfg, period, 100))
	n, err := gen.GetNextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-00100", n)
}
