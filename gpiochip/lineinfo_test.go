package gpiochip

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BertoldVdb/go-gpiocdev/lineconf"
	"github.com/BertoldVdb/go-gpiocdev/uapi"
)

func makeKernelInfo(name, consumer string, flags uapi.LineFlag) uapi.LineInfo {
	li := uapi.LineInfo{
		Offset: 7,
		Flags:  flags,
	}
	stringToBytes(name, li.Name[:])
	stringToBytes(consumer, li.Consumer[:])

	return li
}

func TestLineInfoDecode(t *testing.T) {
	li := makeKernelInfo("SDA1", "i2c-bitbang",
		uapi.LineFlagUsed|uapi.LineFlagOutput|uapi.LineFlagOpenDrain|
			uapi.LineFlagBiasPullUp|uapi.LineFlagActiveLow)

	info := lineInfoFromKernel(&li)

	require.Equal(t, uint32(7), info.Offset)
	require.Equal(t, "SDA1", info.Name)
	require.Equal(t, "i2c-bitbang", info.Consumer)
	require.True(t, info.Used)
	require.True(t, info.ActiveLow)
	require.Equal(t, lineconf.DirectionOutput, info.Direction)
	require.Equal(t, lineconf.DriveOpenDrain, info.Drive)
	require.Equal(t, lineconf.BiasPullUp, info.Bias)
	require.Equal(t, lineconf.EdgeNone, info.EdgeDetection)
	require.Equal(t, lineconf.EventClockMonotonic, info.EventClock)
	require.False(t, info.Debounced)
}

func TestLineInfoDecodeEdgesAndClock(t *testing.T) {
	li := makeKernelInfo("BTN", "",
		uapi.LineFlagInput|uapi.LineFlagEdgeRising|uapi.LineFlagEdgeFalling|
			uapi.LineFlagEventClockRealtime)

	info := lineInfoFromKernel(&li)

	require.Equal(t, lineconf.DirectionInput, info.Direction)
	require.Equal(t, lineconf.EdgeBoth, info.EdgeDetection)
	require.Equal(t, lineconf.EventClockRealtime, info.EventClock)
	require.Equal(t, lineconf.BiasUnknown, info.Bias)
	require.Equal(t, lineconf.DrivePushPull, info.Drive)
}

func TestLineInfoDecodeDebounce(t *testing.T) {
	li := makeKernelInfo("BTN", "", uapi.LineFlagInput|uapi.LineFlagEdgeRising)
	li.NumAttrs = 1
	li.Attrs[0].SetDebouncePeriod(5000)

	info := lineInfoFromKernel(&li)

	require.True(t, info.Debounced)
	require.Equal(t, uint32(5000), info.DebouncePeriodUs)
	require.Equal(t, lineconf.EdgeRising, info.EdgeDetection)
}

func TestInfoEventDecode(t *testing.T) {
	lic := uapi.LineInfoChanged{
		Info:      makeKernelInfo("LED", "blink", uapi.LineFlagUsed|uapi.LineFlagOutput),
		Timestamp: 123456789,
		EventType: uapi.LineChangedRequested,
	}

	ev := infoEventFromKernel(&lic)

	require.Equal(t, InfoEventLineRequested, ev.Type)
	require.Equal(t, uint64(123456789), ev.TimestampNs)
	require.Equal(t, "LED", ev.Info.Name)
	require.Equal(t, lineconf.DirectionOutput, ev.Info.Direction)
}

func TestEdgeEventDecode(t *testing.T) {
	le := uapi.LineEvent{
		Timestamp: 42,
		ID:        uapi.LineEventFallingEdge,
		Offset:    11,
		Seqno:     5,
		LineSeqno: 3,
	}

	ev := edgeEventFromKernel(&le)

	require.Equal(t, EdgeEventFalling, ev.Type)
	require.Equal(t, uint64(42), ev.TimestampNs)
	require.Equal(t, uint32(11), ev.Offset)
	require.Equal(t, uint32(5), ev.Seqno)
	require.Equal(t, uint32(3), ev.LineSeqno)
}

func TestRequestSubsetMask(t *testing.T) {
	r := &Request{offsets: []uint32{4, 9, 2}}

	mask, err := r.subsetMask([]uint32{2, 4})
	require.NoError(t, err)
	require.Equal(t, uapi.LineMask(0b101), mask)

	_, err = r.subsetMask([]uint32{7})
	require.Error(t, err)

	require.Equal(t, 1, r.offsetToBit(9))
	require.Equal(t, -1, r.offsetToBit(10))
}

func TestStringRoundTrip(t *testing.T) {
	var buf [8]byte

	stringToBytes("abc", buf[:])
	require.Equal(t, "abc", bytesToString(buf[:]))

	/* Too long input is truncated with a terminating zero. */
	stringToBytes("0123456789", buf[:])
	require.Equal(t, "0123456", bytesToString(buf[:]))
}
