package gpiochip

import (
	"os"
	"testing"
	"time"
	"unsafe"

	"github.com/BertoldVdb/go-misc/closeflag"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/BertoldVdb/go-gpiocdev/uapi"
)

func structBytes(p unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(p), size)
}

func TestEdgeMonitorDelivery(t *testing.T) {
	rd, wr, err := os.Pipe()
	require.NoError(t, err)
	defer wr.Close()

	req := &Request{file: rd, chipName: "gpiochip0", offsets: []uint32{3}}
	defer req.Close()

	events := make(chan EdgeEvent, 4)
	m := NewEdgeMonitor(req, func(ev EdgeEvent) { events <- ev })

	le := uapi.LineEvent{
		Timestamp: 99,
		ID:        uapi.LineEventRisingEdge,
		Offset:    3,
		Seqno:     1,
		LineSeqno: 1,
	}
	_, err = wr.Write(structBytes(unsafe.Pointer(&le), unsafe.Sizeof(le)))
	require.NoError(t, err)

	var ev EdgeEvent
	select {
	case ev = <-events:
	case <-time.After(5 * time.Second):
		t.Fatal("No event delivered")
	}

	require.Equal(t, EdgeEventRising, ev.Type)
	require.Equal(t, uint32(3), ev.Offset)
	require.Equal(t, uint64(99), ev.TimestampNs)

	require.NoError(t, m.Close())
	require.NoError(t, m.Err())

	/* Closing again only reports that the monitor is gone. */
	require.ErrorIs(t, m.Close(), closeflag.ErrorClosed)
}

func TestEdgeMonitorReadErrorStops(t *testing.T) {
	rd, wr, err := os.Pipe()
	require.NoError(t, err)

	req := &Request{file: rd, chipName: "gpiochip0", offsets: []uint32{0}}
	defer req.Close()

	m := NewEdgeMonitor(req, func(EdgeEvent) {
		t.Error("Handler called for a broken event")
	})

	/* A truncated event makes the next read fail. */
	_, err = wr.Write(make([]byte, 10))
	require.NoError(t, err)
	require.NoError(t, wr.Close())

	select {
	case <-m.Chan():
	case <-time.After(5 * time.Second):
		t.Fatal("Monitor did not stop on a read error")
	}

	require.Equal(t, unix.EIO, m.Err())

	/* Close after a self-stop stays safe. */
	require.ErrorIs(t, m.Close(), closeflag.ErrorClosed)
}

func TestInfoMonitorDelivery(t *testing.T) {
	rd, wr, err := os.Pipe()
	require.NoError(t, err)
	defer wr.Close()

	chip := &Chip{file: rd, path: "/dev/gpiochip0"}
	defer chip.Close()

	events := make(chan InfoEvent, 4)
	m := NewInfoMonitor(chip, func(ev InfoEvent) { events <- ev })

	lic := uapi.LineInfoChanged{
		Timestamp: 7,
		EventType: uapi.LineChangedReleased,
	}
	lic.Info.Offset = 2
	stringToBytes("LED", lic.Info.Name[:])

	_, err = wr.Write(structBytes(unsafe.Pointer(&lic), unsafe.Sizeof(lic)))
	require.NoError(t, err)

	var ev InfoEvent
	select {
	case ev = <-events:
	case <-time.After(5 * time.Second):
		t.Fatal("No event delivered")
	}

	require.Equal(t, InfoEventLineReleased, ev.Type)
	require.Equal(t, uint64(7), ev.TimestampNs)
	require.Equal(t, uint32(2), ev.Info.Offset)
	require.Equal(t, "LED", ev.Info.Name)

	require.NoError(t, m.Close())
	require.NoError(t, m.Err())
}
