package lineconf

import (
	"errors"
)

var (
	// ErrorTooComplex is returned once the override store is
	// exhausted. The condition is sticky: every later override
	// write and compile fails until Reset.
	ErrorTooComplex = errors.New("Line configuration too complex")

	// ErrorTooManyAttrs is returned by Compile when the grouped
	// configuration needs more attribute records than the kernel
	// accepts for the supplied offset list. Unlike ErrorTooComplex
	// it is not sticky: compiling against a smaller offset list may
	// succeed.
	ErrorTooManyAttrs = errors.New("Too many line attributes required")

	// ErrorTooManyLines is returned by Compile when the offset list
	// exceeds the kernel's per-request line limit.
	ErrorTooManyLines = errors.New("Too many requested lines")

	// ErrorValueCount is returned by batch setters when the offset
	// and value slices differ in length.
	ErrorValueCount = errors.New("Offset and value counts differ")
)

// Config is the logical configuration for a set of lines: one set of
// defaults plus per-offset overrides. The zero value is not usable,
// call New. A Config is owned by a single caller and provides no
// internal locking.
type Config struct {
	tooComplex bool
	defaults   baseConfig
	overrides  [NumOverridesMax]override
}

// New returns a Config holding the documented default for every
// property and no overrides.
func New() *Config {
	c := &Config{}
	c.Reset()

	return c
}

// Reset reinitializes the configuration to its created state,
// clearing all overrides and the too-complex condition.
func (c *Config) Reset() {
	c.tooComplex = false
	c.defaults.init()
	for i := range c.overrides {
		c.overrides[i] = override{}
		c.overrides[i].init()
	}
}

func (c *Config) setOverride(offset uint32, flag overrideFlag, set func(*baseConfig)) error {
	o := c.overrideForWriting(offset)
	if o == nil {
		return ErrorTooComplex
	}

	set(&o.base)
	o.flags |= flag

	return nil
}

// SetDirectionDefault sets the default direction. Invalid values fall
// back to DirectionAsIs.
func (c *Config) SetDirectionDefault(direction Direction) {
	c.defaults.direction = normalizeDirection(direction)
}

// SetDirectionOverride overrides the direction for one offset.
func (c *Config) SetDirectionOverride(direction Direction, offset uint32) error {
	return c.setOverride(offset, overrideDirection, func(b *baseConfig) {
		b.direction = normalizeDirection(direction)
	})
}

func (c *Config) ClearDirectionOverride(offset uint32) {
	c.clearOverride(offset, overrideDirection)
}

func (c *Config) DirectionIsOverridden(offset uint32) bool {
	return c.checkOverride(offset, overrideDirection)
}

func (c *Config) DirectionDefault() Direction {
	return c.defaults.direction
}

// Direction returns the effective direction for offset: the override
// if one is active, the default otherwise.
func (c *Config) Direction(offset uint32) Direction {
	return c.baseForReading(offset, overrideDirection).direction
}

// SetEdgeDetectionDefault sets the default edge detection. Invalid
// values fall back to EdgeNone.
func (c *Config) SetEdgeDetectionDefault(edge Edge) {
	c.defaults.edge = normalizeEdge(edge)
}

// SetEdgeDetectionOverride overrides the edge detection for one
// offset.
func (c *Config) SetEdgeDetectionOverride(edge Edge, offset uint32) error {
	return c.setOverride(offset, overrideEdge, func(b *baseConfig) {
		b.edge = normalizeEdge(edge)
	})
}

func (c *Config) ClearEdgeDetectionOverride(offset uint32) {
	c.clearOverride(offset, overrideEdge)
}

func (c *Config) EdgeDetectionIsOverridden(offset uint32) bool {
	return c.checkOverride(offset, overrideEdge)
}

func (c *Config) EdgeDetectionDefault() Edge {
	return c.defaults.edge
}

func (c *Config) EdgeDetection(offset uint32) Edge {
	return c.baseForReading(offset, overrideEdge).edge
}

// SetBiasDefault sets the default bias. Invalid values, including
// BiasUnknown, fall back to BiasAsIs.
func (c *Config) SetBiasDefault(bias Bias) {
	c.defaults.bias = normalizeBias(bias)
}

// SetBiasOverride overrides the bias for one offset.
func (c *Config) SetBiasOverride(bias Bias, offset uint32) error {
	return c.setOverride(offset, overrideBias, func(b *baseConfig) {
		b.bias = normalizeBias(bias)
	})
}

func (c *Config) ClearBiasOverride(offset uint32) {
	c.clearOverride(offset, overrideBias)
}

func (c *Config) BiasIsOverridden(offset uint32) bool {
	return c.checkOverride(offset, overrideBias)
}

func (c *Config) BiasDefault() Bias {
	return c.defaults.bias
}

func (c *Config) Bias(offset uint32) Bias {
	return c.baseForReading(offset, overrideBias).bias
}

// SetDriveDefault sets the default drive. Invalid values fall back to
// DrivePushPull.
func (c *Config) SetDriveDefault(drive Drive) {
	c.defaults.drive = normalizeDrive(drive)
}

// SetDriveOverride overrides the drive for one offset.
func (c *Config) SetDriveOverride(drive Drive, offset uint32) error {
	return c.setOverride(offset, overrideDrive, func(b *baseConfig) {
		b.drive = normalizeDrive(drive)
	})
}

func (c *Config) ClearDriveOverride(offset uint32) {
	c.clearOverride(offset, overrideDrive)
}

func (c *Config) DriveIsOverridden(offset uint32) bool {
	return c.checkOverride(offset, overrideDrive)
}

func (c *Config) DriveDefault() Drive {
	return c.defaults.drive
}

func (c *Config) Drive(offset uint32) Drive {
	return c.baseForReading(offset, overrideDrive).drive
}

// SetActiveLowDefault sets the default active-low setting.
func (c *Config) SetActiveLowDefault(activeLow bool) {
	c.defaults.activeLow = activeLow
}

// SetActiveLowOverride overrides the active-low setting for one
// offset.
func (c *Config) SetActiveLowOverride(activeLow bool, offset uint32) error {
	return c.setOverride(offset, overrideActiveLow, func(b *baseConfig) {
		b.activeLow = activeLow
	})
}

func (c *Config) ClearActiveLowOverride(offset uint32) {
	c.clearOverride(offset, overrideActiveLow)
}

func (c *Config) ActiveLowIsOverridden(offset uint32) bool {
	return c.checkOverride(offset, overrideActiveLow)
}

func (c *Config) ActiveLowDefault() bool {
	return c.defaults.activeLow
}

func (c *Config) ActiveLow(offset uint32) bool {
	return c.baseForReading(offset, overrideActiveLow).activeLow
}

// SetDebouncePeriodDefault sets the default debounce period in
// microseconds. Zero disables debouncing.
func (c *Config) SetDebouncePeriodDefault(periodUs uint32) {
	c.defaults.debouncePeriodUs = periodUs
}

// SetDebouncePeriodOverride overrides the debounce period for one
// offset.
func (c *Config) SetDebouncePeriodOverride(periodUs uint32, offset uint32) error {
	return c.setOverride(offset, overrideDebounce, func(b *baseConfig) {
		b.debouncePeriodUs = periodUs
	})
}

func (c *Config) ClearDebouncePeriodOverride(offset uint32) {
	c.clearOverride(offset, overrideDebounce)
}

func (c *Config) DebouncePeriodIsOverridden(offset uint32) bool {
	return c.checkOverride(offset, overrideDebounce)
}

func (c *Config) DebouncePeriodDefault() uint32 {
	return c.defaults.debouncePeriodUs
}

func (c *Config) DebouncePeriod(offset uint32) uint32 {
	return c.baseForReading(offset, overrideDebounce).debouncePeriodUs
}

// SetEventClockDefault sets the default event timestamp clock.
// Invalid values fall back to EventClockMonotonic.
func (c *Config) SetEventClockDefault(clock EventClock) {
	c.defaults.clock = normalizeEventClock(clock)
}

// SetEventClockOverride overrides the event timestamp clock for one
// offset.
func (c *Config) SetEventClockOverride(clock EventClock, offset uint32) error {
	return c.setOverride(offset, overrideClock, func(b *baseConfig) {
		b.clock = normalizeEventClock(clock)
	})
}

func (c *Config) ClearEventClockOverride(offset uint32) {
	c.clearOverride(offset, overrideClock)
}

func (c *Config) EventClockIsOverridden(offset uint32) bool {
	return c.checkOverride(offset, overrideClock)
}

func (c *Config) EventClockDefault() EventClock {
	return c.defaults.clock
}

func (c *Config) EventClock(offset uint32) EventClock {
	return c.baseForReading(offset, overrideClock).clock
}

// SetOutputValueDefault sets the default output value. It only takes
// effect on lines whose effective direction is output.
func (c *Config) SetOutputValueDefault(active bool) {
	c.defaults.outputValue = active
}

// SetOutputValueOverride overrides the output value for one offset.
func (c *Config) SetOutputValueOverride(active bool, offset uint32) error {
	return c.setOverride(offset, overrideOutputValue, func(b *baseConfig) {
		b.outputValue = active
	})
}

// SetOutputValues overrides the output value for a batch of offsets.
// The slices must be the same length; nothing is modified otherwise.
func (c *Config) SetOutputValues(offsets []uint32, values []bool) error {
	if len(offsets) != len(values) {
		return ErrorValueCount
	}

	for i, offset := range offsets {
		err := c.SetOutputValueOverride(values[i], offset)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) ClearOutputValueOverride(offset uint32) {
	c.clearOverride(offset, overrideOutputValue)
}

func (c *Config) OutputValueIsOverridden(offset uint32) bool {
	return c.checkOverride(offset, overrideOutputValue)
}

func (c *Config) OutputValueDefault() bool {
	return c.defaults.outputValue
}

func (c *Config) OutputValue(offset uint32) bool {
	return c.baseForReading(offset, overrideOutputValue).outputValue
}
