package gpiochip

import (
	"errors"
	"os"
	"time"

	"github.com/BertoldVdb/go-gpiocdev/lineconf"
	"github.com/BertoldVdb/go-gpiocdev/uapi"
)

// Request is an exclusive grant over a set of lines. It is released
// by Close; the lines stay held as long as the fd is open.
type Request struct {
	file     *os.File
	chipName string
	offsets  []uint32
}

func (r *Request) Close() error {
	return r.file.Close()
}

// ChipName returns the name of the chip the lines belong to.
func (r *Request) ChipName() string {
	return r.chipName
}

func (r *Request) NumLines() int {
	return len(r.offsets)
}

// Offsets returns a copy of the requested offsets, in request order.
func (r *Request) Offsets() []uint32 {
	return append([]uint32(nil), r.offsets...)
}

// Fd returns the underlying request file descriptor, for callers
// integrating with their own poll loop.
func (r *Request) Fd() uintptr {
	return r.file.Fd()
}

func (r *Request) offsetToBit(offset uint32) int {
	for i, o := range r.offsets {
		if o == offset {
			return i
		}
	}

	return -1
}

func (r *Request) subsetMask(offsets []uint32) (uapi.LineMask, error) {
	var mask uapi.LineMask

	for _, offset := range offsets {
		bit := r.offsetToBit(offset)
		if bit < 0 {
			return 0, errors.New("Line not in request")
		}

		mask.SetBit(bit)
	}

	return mask, nil
}

// ValuesSubset reads the logical values of the given lines. The
// result is in the order of the offsets argument.
func (r *Request) ValuesSubset(offsets []uint32) ([]bool, error) {
	mask, err := r.subsetMask(offsets)
	if err != nil {
		return nil, err
	}

	lv := uapi.LineValues{Mask: mask}

	err = uapi.GetLineValues(r.file.Fd(), &lv)
	if err != nil {
		return nil, err
	}

	values := make([]bool, len(offsets))
	for i, offset := range offsets {
		values[i] = lv.Bits.TestBit(r.offsetToBit(offset))
	}

	return values, nil
}

// Values reads the logical values of all requested lines, in request
// order.
func (r *Request) Values() ([]bool, error) {
	return r.ValuesSubset(r.offsets)
}

// Value reads the logical value of a single line.
func (r *Request) Value(offset uint32) (bool, error) {
	values, err := r.ValuesSubset([]uint32{offset})
	if err != nil {
		return false, err
	}

	return values[0], nil
}

// SetValuesSubset sets the output values of the given lines. The
// slices must be the same length; nothing is written otherwise.
func (r *Request) SetValuesSubset(offsets []uint32, values []bool) error {
	if len(offsets) != len(values) {
		return errors.New("Offset and value counts differ")
	}

	mask, err := r.subsetMask(offsets)
	if err != nil {
		return err
	}

	lv := uapi.LineValues{Mask: mask}
	for i, offset := range offsets {
		lv.Bits.AssignBit(r.offsetToBit(offset), values[i])
	}

	return uapi.SetLineValues(r.file.Fd(), &lv)
}

// SetValues sets the output values of all requested lines, in
// request order.
func (r *Request) SetValues(values []bool) error {
	return r.SetValuesSubset(r.offsets, values)
}

// SetValue sets the output value of a single line.
func (r *Request) SetValue(offset uint32, value bool) error {
	return r.SetValuesSubset([]uint32{offset}, []bool{value})
}

// Reconfigure compiles lineCfg against the request's offsets and
// replaces the line configuration atomically. Compiler failures are
// returned unchanged and leave the request untouched.
func (r *Request) Reconfigure(lineCfg *lineconf.Config) error {
	kcfg, err := lineCfg.Compile(r.offsets)
	if err != nil {
		return err
	}

	return uapi.SetLineConfig(r.file.Fd(), kcfg)
}

// EdgeEventType distinguishes rising from falling events.
type EdgeEventType int

const (
	EdgeEventRising EdgeEventType = iota + 1
	EdgeEventFalling
)

// EdgeEvent is a single detected edge on a requested line.
type EdgeEvent struct {
	Type EdgeEventType

	// TimestampNs is the event time in nanoseconds, on the clock
	// configured for the line.
	TimestampNs uint64

	// Offset of the line on the chip.
	Offset uint32

	// Seqno is the sequence number of the event across all lines
	// of the request, LineSeqno the one on its line alone.
	Seqno     uint32
	LineSeqno uint32
}

func edgeEventFromKernel(le *uapi.LineEvent) EdgeEvent {
	ev := EdgeEvent{
		TimestampNs: le.Timestamp,
		Offset:      le.Offset,
		Seqno:       le.Seqno,
		LineSeqno:   le.LineSeqno,
	}

	switch le.ID {
	case uapi.LineEventRisingEdge:
		ev.Type = EdgeEventRising
	case uapi.LineEventFallingEdge:
		ev.Type = EdgeEventFalling
	}

	return ev
}

// WaitEdgeEvents waits until at least one edge event is pending. A
// negative timeout blocks indefinitely. Returns false on timeout.
func (r *Request) WaitEdgeEvents(timeout time.Duration) (bool, error) {
	return uapi.PollForRead(r.file.Fd(), pollTimeoutMs(timeout))
}

// ReadEdgeEvents reads up to max pending edge events. It blocks if no
// event is pending, use WaitEdgeEvents first to avoid that.
func (r *Request) ReadEdgeEvents(max int) ([]EdgeEvent, error) {
	if max <= 0 {
		return nil, errors.New("Invalid number of events")
	}

	raw, err := uapi.ReadLineEvents(r.file.Fd(), max)
	if err != nil {
		return nil, err
	}

	events := make([]EdgeEvent, len(raw))
	for i := range raw {
		events[i] = edgeEventFromKernel(&raw[i])
	}

	return events, nil
}

// ReadEdgeEvent reads a single pending edge event.
func (r *Request) ReadEdgeEvent() (EdgeEvent, error) {
	events, err := r.ReadEdgeEvents(1)
	if err != nil {
		return EdgeEvent{}, err
	}

	return events[0], nil
}
