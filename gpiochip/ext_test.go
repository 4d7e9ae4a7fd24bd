package gpiochip

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BertoldVdb/go-gpiocdev/lineconf"
)

func TestSettingsFromInfo(t *testing.T) {
	info := LineInfo{
		Direction:        lineconf.DirectionInput,
		Bias:             lineconf.BiasPullUp,
		EdgeDetection:    lineconf.EdgeBoth,
		Debounced:        true,
		DebouncePeriodUs: 3000,
	}

	cfg := settingsFromInfo(&info)

	require.Equal(t, lineconf.DirectionInput, cfg.DirectionDefault())
	require.Equal(t, lineconf.BiasPullUp, cfg.BiasDefault())
	require.Equal(t, lineconf.EdgeBoth, cfg.EdgeDetectionDefault())
	require.Equal(t, uint32(3000), cfg.DebouncePeriodDefault())
}

func TestSettingsFromInfoUnknownBias(t *testing.T) {
	info := LineInfo{
		Direction:     lineconf.DirectionInput,
		Bias:          lineconf.BiasUnknown,
		EdgeDetection: lineconf.EdgeNone,
	}

	cfg := settingsFromInfo(&info)

	/* An unreported bias cannot be requested back. */
	require.Equal(t, lineconf.BiasAsIs, cfg.BiasDefault())
	require.Equal(t, uint32(0), cfg.DebouncePeriodDefault())
}

func TestSingleLineSettersRejectMultiLine(t *testing.T) {
	r := &Request{chipName: "gpiochip0", offsets: []uint32{1, 2}}

	require.ErrorIs(t, r.SetBias(lineconf.BiasPullDown), ErrorNotSingleLine)
	require.ErrorIs(t, r.SetDebouncePeriod(1000), ErrorNotSingleLine)
	require.ErrorIs(t, r.SetEdgeDetection(lineconf.EdgeRising), ErrorNotSingleLine)
}
