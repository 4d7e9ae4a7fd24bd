package lineconf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c := New()

	require.Equal(t, DirectionAsIs, c.DirectionDefault())
	require.Equal(t, EdgeNone, c.EdgeDetectionDefault())
	require.Equal(t, BiasAsIs, c.BiasDefault())
	require.Equal(t, DrivePushPull, c.DriveDefault())
	require.False(t, c.ActiveLowDefault())
	require.Equal(t, EventClockMonotonic, c.EventClockDefault())
	require.Equal(t, uint32(0), c.DebouncePeriodDefault())
	require.False(t, c.OutputValueDefault())
	require.Equal(t, 0, c.NumOverrides())
}

func TestDefaultRoundTrip(t *testing.T) {
	c := New()

	for _, d := range []Direction{DirectionAsIs, DirectionInput, DirectionOutput} {
		c.SetDirectionDefault(d)
		require.Equal(t, d, c.DirectionDefault())
	}
	for _, e := range []Edge{EdgeNone, EdgeRising, EdgeFalling, EdgeBoth} {
		c.SetEdgeDetectionDefault(e)
		require.Equal(t, e, c.EdgeDetectionDefault())
	}
	for _, b := range []Bias{BiasAsIs, BiasDisabled, BiasPullUp, BiasPullDown} {
		c.SetBiasDefault(b)
		require.Equal(t, b, c.BiasDefault())
	}
	for _, d := range []Drive{DrivePushPull, DriveOpenDrain, DriveOpenSource} {
		c.SetDriveDefault(d)
		require.Equal(t, d, c.DriveDefault())
	}
	for _, clk := range []EventClock{EventClockMonotonic, EventClockRealtime} {
		c.SetEventClockDefault(clk)
		require.Equal(t, clk, c.EventClockDefault())
	}

	c.SetActiveLowDefault(true)
	require.True(t, c.ActiveLowDefault())
	c.SetDebouncePeriodDefault(1234)
	require.Equal(t, uint32(1234), c.DebouncePeriodDefault())
	c.SetOutputValueDefault(true)
	require.True(t, c.OutputValueDefault())
}

func TestInvalidEnumFallsBack(t *testing.T) {
	c := New()

	c.SetDirectionDefault(Direction(42))
	require.Equal(t, DirectionAsIs, c.DirectionDefault())

	c.SetEdgeDetectionDefault(Edge(-1))
	require.Equal(t, EdgeNone, c.EdgeDetectionDefault())

	c.SetBiasDefault(Bias(0))
	require.Equal(t, BiasAsIs, c.BiasDefault())

	/* BiasUnknown is info-only, not configurable. */
	c.SetBiasDefault(BiasUnknown)
	require.Equal(t, BiasAsIs, c.BiasDefault())

	c.SetDriveDefault(Drive(99))
	require.Equal(t, DrivePushPull, c.DriveDefault())

	c.SetEventClockDefault(EventClock(7))
	require.Equal(t, EventClockMonotonic, c.EventClockDefault())

	require.NoError(t, c.SetDirectionOverride(Direction(42), 3))
	require.Equal(t, DirectionAsIs, c.Direction(3))
	require.True(t, c.DirectionIsOverridden(3))
}

func TestOverrideReadBack(t *testing.T) {
	c := New()

	require.NoError(t, c.SetBiasOverride(BiasPullUp, 5))
	require.Equal(t, BiasPullUp, c.Bias(5))
	require.True(t, c.BiasIsOverridden(5))

	/* Other offsets and other properties keep reading the defaults. */
	require.Equal(t, BiasAsIs, c.Bias(6))
	require.False(t, c.BiasIsOverridden(6))
	require.Equal(t, DirectionAsIs, c.Direction(5))
	require.False(t, c.DirectionIsOverridden(5))

	/* A later default change shows through on un-overridden offsets. */
	c.SetBiasDefault(BiasPullDown)
	require.Equal(t, BiasPullUp, c.Bias(5))
	require.Equal(t, BiasPullDown, c.Bias(6))

	c.ClearBiasOverride(5)
	require.Equal(t, BiasPullDown, c.Bias(5))
	require.False(t, c.BiasIsOverridden(5))
}

func TestClearLastFlagFreesSlot(t *testing.T) {
	c := New()

	/* Occupy every slot. */
	for i := 0; i < NumOverridesMax; i++ {
		require.NoError(t, c.SetActiveLowOverride(true, uint32(i)))
	}
	require.Error(t, c.SetActiveLowOverride(true, 1000))

	c2 := New()
	require.NoError(t, c2.SetEdgeDetectionOverride(EdgeBoth, 7))
	require.NoError(t, c2.SetDebouncePeriodOverride(100, 7))

	c2.ClearEdgeDetectionOverride(7)
	require.False(t, c2.EdgeDetectionIsOverridden(7))
	require.True(t, c2.DebouncePeriodIsOverridden(7))

	/* Clearing the last flag reinitializes the record completely. */
	c2.ClearDebouncePeriodOverride(7)
	require.False(t, c2.DebouncePeriodIsOverridden(7))
	require.Equal(t, 0, c2.NumOverrides())
}

func TestSlotReuseAcrossSetClearCycles(t *testing.T) {
	c := New()

	/* Occupancy must not grow across set/clear cycles. */
	for i := 0; i < 10*NumOverridesMax; i++ {
		offset := uint32(i)
		require.NoError(t, c.SetDirectionOverride(DirectionInput, offset))
		c.ClearDirectionOverride(offset)
	}

	require.Equal(t, 0, c.NumOverrides())
	require.NoError(t, c.SetDirectionOverride(DirectionInput, 12345))
}

func TestStoreExhaustionIsSticky(t *testing.T) {
	c := New()

	for i := 0; i < NumOverridesMax; i++ {
		require.NoError(t, c.SetBiasOverride(BiasPullUp, uint32(i)))
	}

	err := c.SetBiasOverride(BiasPullUp, NumOverridesMax)
	require.ErrorIs(t, err, ErrorTooComplex)

	/* Once too complex, even writes to existing offsets fail. */
	err = c.SetBiasOverride(BiasPullDown, 0)
	require.ErrorIs(t, err, ErrorTooComplex)

	/* And every compile fails fast, regardless of the offset list. */
	_, err = c.Compile([]uint32{0})
	require.ErrorIs(t, err, ErrorTooComplex)
	_, err = c.Compile(nil)
	require.ErrorIs(t, err, ErrorTooComplex)

	/* Reset clears the condition. */
	c.Reset()
	require.NoError(t, c.SetBiasOverride(BiasPullUp, 0))
	_, err = c.Compile([]uint32{0})
	require.NoError(t, err)
}

func TestSetOutputValuesBatch(t *testing.T) {
	c := New()
	c.SetDirectionDefault(DirectionOutput)

	err := c.SetOutputValues([]uint32{1, 2}, []bool{true})
	require.ErrorIs(t, err, ErrorValueCount)
	require.Equal(t, 0, c.NumOverrides())

	require.NoError(t, c.SetOutputValues([]uint32{1, 2, 3}, []bool{true, false, true}))
	require.True(t, c.OutputValue(1))
	require.False(t, c.OutputValue(2))
	require.True(t, c.OutputValue(3))
	require.Equal(t, 3, c.NumOverrides())
}

func TestOverridesEnumeration(t *testing.T) {
	c := New()

	require.NoError(t, c.SetDirectionOverride(DirectionOutput, 4))
	require.NoError(t, c.SetOutputValueOverride(true, 4))
	require.NoError(t, c.SetDebouncePeriodOverride(100, 9))

	require.Equal(t, 3, c.NumOverrides())

	offsets, props := c.Overrides()
	require.Len(t, offsets, 3)
	require.Len(t, props, 3)
	require.Equal(t, []uint32{4, 4, 9}, offsets)
	require.Equal(t, []Property{PropertyDirection, PropertyOutputValue, PropertyDebouncePeriod}, props)
}

func TestNormalizeHelpers(t *testing.T) {
	require.Equal(t, DirectionInput, normalizeDirection(DirectionInput))
	require.Equal(t, DirectionAsIs, normalizeDirection(Direction(0)))
	require.Equal(t, EdgeBoth, normalizeEdge(EdgeBoth))
	require.Equal(t, EdgeNone, normalizeEdge(Edge(100)))
	require.Equal(t, BiasPullDown, normalizeBias(BiasPullDown))
	require.Equal(t, BiasAsIs, normalizeBias(BiasUnknown))
	require.Equal(t, DriveOpenSource, normalizeDrive(DriveOpenSource))
	require.Equal(t, DrivePushPull, normalizeDrive(Drive(-3)))
	require.Equal(t, EventClockRealtime, normalizeEventClock(EventClockRealtime))
	require.Equal(t, EventClockMonotonic, normalizeEventClock(EventClock(9)))
}
