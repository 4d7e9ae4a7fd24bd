package gpiochip

import (
	"github.com/BertoldVdb/go-gpiocdev/lineconf"
	"github.com/BertoldVdb/go-gpiocdev/uapi"
)

// LineInfo is a snapshot of one line's state as reported by the
// kernel.
type LineInfo struct {
	Offset   uint32
	Name     string
	Consumer string

	// Used is set when the line is held by a consumer or the
	// kernel itself and cannot be requested.
	Used bool

	Direction        lineconf.Direction
	ActiveLow        bool
	Bias             lineconf.Bias
	Drive            lineconf.Drive
	EdgeDetection    lineconf.Edge
	EventClock       lineconf.EventClock
	Debounced        bool
	DebouncePeriodUs uint32
}

func lineInfoFromKernel(li *uapi.LineInfo) LineInfo {
	info := LineInfo{
		Offset:   li.Offset,
		Name:     bytesToString(li.Name[:]),
		Consumer: bytesToString(li.Consumer[:]),
	}

	flags := li.Flags

	info.Used = flags&uapi.LineFlagUsed != 0
	info.ActiveLow = flags&uapi.LineFlagActiveLow != 0

	if flags&uapi.LineFlagOutput != 0 {
		info.Direction = lineconf.DirectionOutput
	} else {
		info.Direction = lineconf.DirectionInput
	}

	switch {
	case flags&uapi.LineFlagEdgeRising != 0 && flags&uapi.LineFlagEdgeFalling != 0:
		info.EdgeDetection = lineconf.EdgeBoth
	case flags&uapi.LineFlagEdgeRising != 0:
		info.EdgeDetection = lineconf.EdgeRising
	case flags&uapi.LineFlagEdgeFalling != 0:
		info.EdgeDetection = lineconf.EdgeFalling
	default:
		info.EdgeDetection = lineconf.EdgeNone
	}

	switch {
	case flags&uapi.LineFlagBiasPullUp != 0:
		info.Bias = lineconf.BiasPullUp
	case flags&uapi.LineFlagBiasPullDown != 0:
		info.Bias = lineconf.BiasPullDown
	case flags&uapi.LineFlagBiasDisabled != 0:
		info.Bias = lineconf.BiasDisabled
	default:
		info.Bias = lineconf.BiasUnknown
	}

	switch {
	case flags&uapi.LineFlagOpenDrain != 0:
		info.Drive = lineconf.DriveOpenDrain
	case flags&uapi.LineFlagOpenSource != 0:
		info.Drive = lineconf.DriveOpenSource
	default:
		info.Drive = lineconf.DrivePushPull
	}

	if flags&uapi.LineFlagEventClockRealtime != 0 {
		info.EventClock = lineconf.EventClockRealtime
	} else {
		info.EventClock = lineconf.EventClockMonotonic
	}

	for i := uint32(0); i < li.NumAttrs && i < uapi.LineNumAttrsMax; i++ {
		attr := &li.Attrs[i]

		if attr.ID == uapi.LineAttrIDDebounce {
			info.Debounced = true
			info.DebouncePeriodUs = uint32(attr.Value)
		}
	}

	return info
}

// Info event types.
type InfoEventType int

const (
	InfoEventLineRequested InfoEventType = iota + 1
	InfoEventLineReleased
	InfoEventLineConfigChanged
)

// InfoEvent reports a state change on a watched line.
type InfoEvent struct {
	Type InfoEventType

	// TimestampNs is the time of the change on the monotonic
	// clock, in nanoseconds.
	TimestampNs uint64

	Info LineInfo
}

func infoEventFromKernel(lic *uapi.LineInfoChanged) InfoEvent {
	ev := InfoEvent{
		TimestampNs: lic.Timestamp,
		Info:        lineInfoFromKernel(&lic.Info),
	}

	switch lic.EventType {
	case uapi.LineChangedRequested:
		ev.Type = InfoEventLineRequested
	case uapi.LineChangedReleased:
		ev.Type = InfoEventLineReleased
	case uapi.LineChangedConfig:
		ev.Type = InfoEventLineConfigChanged
	}

	return ev
}
