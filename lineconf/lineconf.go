// Package lineconf models the logical configuration of a set of GPIO
// lines and compiles it into the kernel's fixed-size line
// configuration record.
//
// A Config holds one set of process-wide default property values plus
// a bounded pool of per-offset overrides. Compile flattens defaults
// and overrides into a uapi.LineConfig: overrides with equal effective
// values are merged into shared attribute records so the result fits
// the kernel's attribute limit, or compilation fails with a capacity
// error.
package lineconf

// Direction is the I/O direction of a line.
type Direction int

const (
	// DirectionAsIs keeps the direction the line already has.
	DirectionAsIs Direction = iota + 1
	DirectionInput
	DirectionOutput
)

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	}
	return "as-is"
}

// Edge selects the signal transitions reported as edge events.
type Edge int

const (
	EdgeNone Edge = iota + 1
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	}
	return "none"
}

// Bias is the internal bias of a line.
type Bias int

const (
	// BiasAsIs keeps the bias the line already has.
	BiasAsIs Bias = iota + 1

	// BiasUnknown is only reported in line info, never configured.
	BiasUnknown

	BiasDisabled
	BiasPullUp
	BiasPullDown
)

func (b Bias) String() string {
	switch b {
	case BiasDisabled:
		return "disabled"
	case BiasPullUp:
		return "pull-up"
	case BiasPullDown:
		return "pull-down"
	case BiasUnknown:
		return "unknown"
	}
	return "as-is"
}

// Drive is the drive setting of an output line.
type Drive int

const (
	DrivePushPull Drive = iota + 1
	DriveOpenDrain
	DriveOpenSource
)

func (d Drive) String() string {
	switch d {
	case DriveOpenDrain:
		return "open-drain"
	case DriveOpenSource:
		return "open-source"
	}
	return "push-pull"
}

// EventClock is the clock used to timestamp edge events.
type EventClock int

const (
	EventClockMonotonic EventClock = iota + 1
	EventClockRealtime
)

func (c EventClock) String() string {
	if c == EventClockRealtime {
		return "realtime"
	}
	return "monotonic"
}

/*
 * Invalid enum input on any setter is substituted with the property's
 * documented fallback instead of being rejected.
 */

func normalizeDirection(direction Direction) Direction {
	switch direction {
	case DirectionAsIs, DirectionInput, DirectionOutput:
		return direction
	}
	return DirectionAsIs
}

func normalizeEdge(edge Edge) Edge {
	switch edge {
	case EdgeNone, EdgeRising, EdgeFalling, EdgeBoth:
		return edge
	}
	return EdgeNone
}

func normalizeBias(bias Bias) Bias {
	switch bias {
	case BiasAsIs, BiasDisabled, BiasPullUp, BiasPullDown:
		return bias
	}
	return BiasAsIs
}

func normalizeDrive(drive Drive) Drive {
	switch drive {
	case DrivePushPull, DriveOpenDrain, DriveOpenSource:
		return drive
	}
	return DrivePushPull
}

func normalizeEventClock(clock EventClock) EventClock {
	switch clock {
	case EventClockMonotonic, EventClockRealtime:
		return clock
	}
	return EventClockMonotonic
}

// baseConfig is one full set of line properties, used both for the
// defaults and for the payload of every override record.
type baseConfig struct {
	direction        Direction
	edge             Edge
	drive            Drive
	bias             Bias
	activeLow        bool
	clock            EventClock
	debouncePeriodUs uint32
	outputValue      bool
}

func (b *baseConfig) init() {
	b.direction = DirectionAsIs
	b.edge = EdgeNone
	b.bias = BiasAsIs
	b.drive = DrivePushPull
	b.activeLow = false
	b.clock = EventClockMonotonic
	b.debouncePeriodUs = 0
	b.outputValue = false
}
