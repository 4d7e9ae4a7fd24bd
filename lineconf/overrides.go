package lineconf

import "github.com/BertoldVdb/go-gpiocdev/uapi"

// NumOverridesMax is the capacity of the override store. It matches
// the kernel's per-request line limit since overrides beyond that
// could never all take effect in one request.
const NumOverridesMax = uapi.LinesMax

type overrideFlag uint8

const (
	overrideDirection overrideFlag = 1 << iota
	overrideEdge
	overrideDrive
	overrideBias
	overrideActiveLow
	overrideClock
	overrideDebounce
	overrideOutputValue
)

// flagsFamily covers the properties encoded in a single kernel flags
// word. Debounce and output values use their own attribute kinds.
const flagsFamily = overrideDirection | overrideEdge | overrideDrive |
	overrideBias | overrideActiveLow | overrideClock

var overrideFlagOrder = []overrideFlag{
	overrideDirection,
	overrideEdge,
	overrideBias,
	overrideDrive,
	overrideActiveLow,
	overrideDebounce,
	overrideClock,
	overrideOutputValue,
}

// Property identifies one configurable line property, used when
// enumerating the active overrides of a Config.
type Property int

const (
	PropertyDirection Property = iota + 1
	PropertyEdge
	PropertyBias
	PropertyDrive
	PropertyActiveLow
	PropertyDebouncePeriod
	PropertyEventClock
	PropertyOutputValue
)

func (f overrideFlag) property() Property {
	switch f {
	case overrideDirection:
		return PropertyDirection
	case overrideEdge:
		return PropertyEdge
	case overrideBias:
		return PropertyBias
	case overrideDrive:
		return PropertyDrive
	case overrideActiveLow:
		return PropertyActiveLow
	case overrideDebounce:
		return PropertyDebouncePeriod
	case overrideClock:
		return PropertyEventClock
	}
	return PropertyOutputValue
}

/*
 * Config overriding the defaults for a single line offset. Only
 * flagged properties are actually overridden, the rest of base is
 * inert storage. A record with no flags set is free.
 */
type override struct {
	base   baseConfig
	offset uint32
	flags  overrideFlag
}

func (o *override) init() {
	o.flags = 0
	o.base.init()
}

func (o *override) used() bool {
	return o.flags != 0
}

// findOverride returns the record whose offset field matches, used or
// not. An unused record keeps its last offset so it is found and
// reused before a fresh slot is taken for the same offset.
func (c *Config) findOverride(offset uint32) *override {
	for i := range c.overrides {
		if c.overrides[i].offset == offset {
			return &c.overrides[i]
		}
	}

	return nil
}

func (c *Config) takeFreeOverride(offset uint32) *override {
	for i := range c.overrides {
		o := &c.overrides[i]

		if o.used() {
			continue
		}

		o.offset = offset
		return o
	}

	/* No more free overrides. */
	c.tooComplex = true
	return nil
}

// overrideForWriting returns the record for offset, allocating a free
// slot if needed. It returns nil once the store is exhausted, and the
// configuration is then permanently too complex until Reset.
func (c *Config) overrideForWriting(offset uint32) *override {
	if c.tooComplex {
		return nil
	}

	o := c.findOverride(offset)
	if o == nil {
		o = c.takeFreeOverride(offset)
	}

	return o
}

// baseForReading returns the override's property set if flag is set
// on the record for offset, and the defaults otherwise.
func (c *Config) baseForReading(offset uint32, flag overrideFlag) *baseConfig {
	o := c.findOverride(offset)
	if o != nil && o.flags&flag != 0 {
		return &o.base
	}

	return &c.defaults
}

func (c *Config) clearOverride(offset uint32, flag overrideFlag) {
	o := c.findOverride(offset)
	if o == nil {
		return
	}

	if o.flags&flag != 0 {
		o.flags &^= flag

		if o.flags == 0 {
			/* Last flag cleared, free the slot for reuse. */
			o.init()
		}
	}
}

func (c *Config) checkOverride(offset uint32, flag overrideFlag) bool {
	o := c.findOverride(offset)
	if o == nil {
		return false
	}

	return o.flags&flag != 0
}

// NumOverrides returns the number of (offset, property) pairs
// currently overridden. The store capacity is enforced per slot, not
// per pair, so this can exceed NumOverridesMax.
func (c *Config) NumOverrides() int {
	count := 0

	for i := range c.overrides {
		o := &c.overrides[i]

		if !o.used() {
			continue
		}

		for _, flag := range overrideFlagOrder {
			if o.flags&flag != 0 {
				count++
			}
		}
	}

	return count
}

// Overrides enumerates the active overrides as parallel offset and
// property slices, in store order.
func (c *Config) Overrides() ([]uint32, []Property) {
	var offsets []uint32
	var props []Property

	for i := range c.overrides {
		o := &c.overrides[i]

		if !o.used() {
			continue
		}

		for _, flag := range overrideFlagOrder {
			if o.flags&flag != 0 {
				offsets = append(offsets, o.offset)
				props = append(props, flag.property())
			}
		}
	}

	return offsets, props
}
