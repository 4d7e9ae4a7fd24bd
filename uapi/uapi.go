// Package uapi contains the Linux GPIO character device uAPI v2
// definitions. The struct layouts match include/uapi/linux/gpio.h and
// must not be changed.
package uapi

const (
	// LinesMax is the maximum number of lines in one request.
	LinesMax = 64

	// LineNumAttrsMax is the maximum number of configuration
	// attributes in one request.
	LineNumAttrsMax = 10

	nameSize = 32
)

// LineFlag is the bit-field word describing line state and
// configuration, shared by line info and line config.
type LineFlag uint64

const (
	LineFlagUsed LineFlag = 1 << iota
	LineFlagActiveLow
	LineFlagInput
	LineFlagOutput
	LineFlagEdgeRising
	LineFlagEdgeFalling
	LineFlagOpenDrain
	LineFlagOpenSource
	LineFlagBiasPullUp
	LineFlagBiasPullDown
	LineFlagBiasDisabled
	LineFlagEventClockRealtime
)

// Attribute ids selecting the interpretation of LineAttribute.Value.
const (
	LineAttrIDFlags        uint32 = 1
	LineAttrIDOutputValues uint32 = 2
	LineAttrIDDebounce     uint32 = 3
)

// LineAttribute is a configurable attribute of a line.
//
// Value is a union in the kernel: a LineFlag word, a per-line value
// bitmap, or a debounce period in microseconds depending on ID.
type LineAttribute struct {
	ID    uint32
	_     uint32
	Value uint64
}

func (la *LineAttribute) SetFlags(flags LineFlag) {
	la.ID = LineAttrIDFlags
	la.Value = uint64(flags)
}

func (la *LineAttribute) SetOutputValues(values LineMask) {
	la.ID = LineAttrIDOutputValues
	la.Value = uint64(values)
}

func (la *LineAttribute) SetDebouncePeriod(periodUs uint32) {
	la.ID = LineAttrIDDebounce
	la.Value = uint64(periodUs)
}

// LineConfigAttribute associates an attribute with the lines it
// applies to, as bit positions in the request's offset array.
type LineConfigAttribute struct {
	Attr LineAttribute
	Mask LineMask
}

// LineConfig is the configuration of a set of requested lines.
type LineConfig struct {
	Flags    LineFlag
	NumAttrs uint32
	_        [5]uint32
	Attrs    [LineNumAttrsMax]LineConfigAttribute
}

// LineRequest is a request for control of a set of lines.
type LineRequest struct {
	Offsets         [LinesMax]uint32
	Consumer        [nameSize]byte
	Config          LineConfig
	NumLines        uint32
	EventBufferSize uint32
	_               [5]uint32
	Fd              int32
}

// LineValues holds values for a subset of requested lines.
type LineValues struct {
	Bits LineMask
	Mask LineMask
}

// LineInfo is the kernel's description of one line.
type LineInfo struct {
	Name     [nameSize]byte
	Consumer [nameSize]byte
	Offset   uint32
	NumAttrs uint32
	Flags    LineFlag
	Attrs    [LineNumAttrsMax]LineAttribute
	_        [4]uint32
}

// LineInfoChanged is read from the chip fd when a watched line
// changes state.
type LineInfoChanged struct {
	Info      LineInfo
	Timestamp uint64
	EventType uint32
	_         [5]uint32
}

// Info change event types.
const (
	LineChangedRequested uint32 = 1 + iota
	LineChangedReleased
	LineChangedConfig
)

// LineEvent is read from a request fd when an edge event occurs.
type LineEvent struct {
	Timestamp uint64
	ID        uint32
	Offset    uint32
	Seqno     uint32
	LineSeqno uint32
	_         [6]uint32
}

// Edge event ids.
const (
	LineEventRisingEdge uint32 = 1 + iota
	LineEventFallingEdge
)

// ChipInfo describes a GPIO chip.
type ChipInfo struct {
	Name  [nameSize]byte
	Label [nameSize]byte
	Lines uint32
}
