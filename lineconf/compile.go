package lineconf

import "github.com/BertoldVdb/go-gpiocdev/uapi"

func kernelFlags(base *baseConfig) uapi.LineFlag {
	var flags uapi.LineFlag

	switch base.direction {
	case DirectionInput:
		flags |= uapi.LineFlagInput
	case DirectionOutput:
		flags |= uapi.LineFlagOutput
	}

	switch base.edge {
	case EdgeRising:
		flags |= uapi.LineFlagEdgeRising
	case EdgeFalling:
		flags |= uapi.LineFlagEdgeFalling
	case EdgeBoth:
		flags |= uapi.LineFlagEdgeRising | uapi.LineFlagEdgeFalling
	}
	if base.edge != EdgeNone {
		/* Edge detection requires an input. */
		flags |= uapi.LineFlagInput
		flags &^= uapi.LineFlagOutput
	}

	switch base.drive {
	case DriveOpenDrain:
		flags |= uapi.LineFlagOpenDrain
	case DriveOpenSource:
		flags |= uapi.LineFlagOpenSource
	}

	switch base.bias {
	case BiasDisabled:
		flags |= uapi.LineFlagBiasDisabled
	case BiasPullUp:
		flags |= uapi.LineFlagBiasPullUp
	case BiasPullDown:
		flags |= uapi.LineFlagBiasPullDown
	}

	if base.activeLow {
		flags |= uapi.LineFlagActiveLow
	}

	if base.clock == EventClockRealtime {
		flags |= uapi.LineFlagEventClockRealtime
	}

	return flags
}

// bitmapIndex returns the position of offset in the requested offset
// list, or -1 if the offset is not being requested.
func bitmapIndex(offset uint32, offsets []uint32) int {
	for i, o := range offsets {
		if o == offset {
			return i
		}
	}

	return -1
}

// effectiveDirection is the direction offset o's override produces
// once merged with the defaults.
func (c *Config) effectiveDirection(o *override) Direction {
	if o.flags&overrideDirection != 0 {
		return o.base.direction
	}

	return c.defaults.direction
}

func (c *Config) hasOutputDirection() bool {
	if c.defaults.direction == DirectionOutput {
		return true
	}

	for i := range c.overrides {
		o := &c.overrides[i]

		if o.flags&overrideDirection != 0 && o.base.direction == DirectionOutput {
			return true
		}
	}

	return false
}

/*
 * Output value and direction are independent override flags that can
 * arrive in any order, so the bitmap is built from the effective
 * direction at encode time, in three passes:
 *  1. default direction output: mark every requested line with the
 *     default value, except lines overridden away from output,
 *  2. otherwise mark lines overridden to output with the default
 *     value, unless they also carry a value override,
 *  3. apply explicit value overrides where the effective direction is
 *     output.
 */
func (c *Config) outputValues(offsets []uint32) (uapi.LineMask, uapi.LineMask) {
	var mask, values uapi.LineMask

	if c.defaults.direction == DirectionOutput {
		for i, offset := range offsets {
			o := c.findOverride(offset)
			if o != nil && o.flags&overrideDirection != 0 &&
				o.base.direction != DirectionOutput {
				continue
			}

			mask.SetBit(i)
			values.AssignBit(i, c.defaults.outputValue)
		}
	} else {
		for i := range c.overrides {
			o := &c.overrides[i]

			if o.flags&overrideDirection == 0 ||
				o.base.direction != DirectionOutput ||
				o.flags&overrideOutputValue != 0 {
				continue
			}

			idx := bitmapIndex(o.offset, offsets)
			if idx < 0 {
				continue
			}

			mask.SetBit(idx)
			values.AssignBit(idx, c.defaults.outputValue)
		}
	}

	for i := range c.overrides {
		o := &c.overrides[i]

		if o.flags&overrideOutputValue == 0 ||
			c.effectiveDirection(o) != DirectionOutput {
			continue
		}

		idx := bitmapIndex(o.offset, offsets)
		if idx < 0 {
			continue
		}

		mask.SetBit(idx)
		values.AssignBit(idx, o.base.outputValue)
	}

	return mask, values
}

/* Equality of the flagged properties against a full property set. */

func flagsEqual(base *baseConfig, o *override) bool {
	if (o.flags&overrideDirection != 0 && base.direction != o.base.direction) ||
		(o.flags&overrideEdge != 0 && base.edge != o.base.edge) ||
		(o.flags&overrideDrive != 0 && base.drive != o.base.drive) ||
		(o.flags&overrideBias != 0 && base.bias != o.base.bias) ||
		(o.flags&overrideActiveLow != 0 && base.activeLow != o.base.activeLow) ||
		(o.flags&overrideClock != 0 && base.clock != o.base.clock) {
		return false
	}

	return true
}

func debounceEqual(base *baseConfig, o *override) bool {
	if o.flags&overrideDebounce != 0 &&
		base.debouncePeriodUs != o.base.debouncePeriodUs {
		return false
	}

	return true
}

/*
 * Group equality between two overrides: same flag subset (ignoring
 * the orthogonal debounce flag) and same effective values.
 */

func overrideFlagsEqual(a, b *override) bool {
	if a.flags&^overrideDebounce != b.flags&^overrideDebounce {
		return false
	}

	return flagsEqual(&a.base, b)
}

func overrideDebounceEqual(a, b *override) bool {
	if a.flags&overrideDebounce != b.flags&overrideDebounce {
		return false
	}

	return debounceEqual(&a.base, b)
}

func (c *Config) setFlagsAttr(attr *uapi.LineAttribute, o *override) {
	base := c.defaults

	if o.flags&overrideDirection != 0 {
		base.direction = o.base.direction
	}
	if o.flags&overrideEdge != 0 {
		base.edge = o.base.edge
	}
	if o.flags&overrideDrive != 0 {
		base.drive = o.base.drive
	}
	if o.flags&overrideBias != 0 {
		base.bias = o.base.bias
	}
	if o.flags&overrideActiveLow != 0 {
		base.activeLow = o.base.activeLow
	}
	if o.flags&overrideClock != 0 {
		base.clock = o.base.clock
	}

	attr.SetFlags(kernelFlags(&base))
}

func setDebounceAttr(attr *uapi.LineAttribute, o *override) {
	attr.SetDebouncePeriod(o.base.debouncePeriodUs)
}

// attrMask maps the marked store slots to bit positions in the
// requested offset list. Overridden offsets that are not being
// requested are silently ignored.
func (c *Config) attrMask(marked uapi.LineMask, offsets []uint32) uapi.LineMask {
	var out uapi.LineMask

	for i := range c.overrides {
		o := &c.overrides[i]

		if !o.used() || !marked.TestBit(i) {
			continue
		}

		idx := bitmapIndex(o.offset, offsets)
		if idx < 0 {
			continue
		}

		out.SetBit(idx)
	}

	return out
}

/*
 * Walk the override store once, grouping unprocessed records with
 * identical effective values into shared attributes. The first
 * unprocessed record starts each group, so grouping is deterministic
 * over store order. Records matching the defaults are covered by the
 * baseline flags word and emit nothing.
 */
func (c *Config) processOverrides(cfg *uapi.LineConfig, attrIdx *int, offsets []uint32,
	defaultsEqual func(*baseConfig, *override) bool,
	overridesEqual func(*override, *override) bool,
	setAttr func(*uapi.LineAttribute, *override)) error {
	var processed uapi.LineMask

	for i := range c.overrides {
		current := &c.overrides[i]

		if !current.used() || processed.TestBit(i) {
			continue
		}

		processed.SetBit(i)

		if defaultsEqual(&c.defaults, current) {
			continue
		}

		var marked uapi.LineMask
		marked.SetBit(i)

		for j := i + 1; j < len(c.overrides); j++ {
			next := &c.overrides[j]

			if !next.used() || processed.TestBit(j) {
				continue
			}

			if overridesEqual(current, next) {
				marked.SetBit(j)
				processed.SetBit(j)
			}
		}

		mask := c.attrMask(marked, offsets)
		if mask == 0 {
			/* No group member is being requested. */
			continue
		}

		if *attrIdx == uapi.LineNumAttrsMax {
			return ErrorTooManyAttrs
		}

		attr := &cfg.Attrs[*attrIdx]
		*attrIdx++

		attr.Mask = mask
		setAttr(&attr.Attr, current)
	}

	return nil
}

// Compile translates the configuration into the kernel line
// configuration record for the given ordered offset list.
//
// Compilation does not modify the configuration: a failed compile may
// be retried with a smaller offset list, and compiling twice with
// identical inputs produces identical output.
func (c *Config) Compile(offsets []uint32) (*uapi.LineConfig, error) {
	if c.tooComplex {
		return nil, ErrorTooComplex
	}

	if len(offsets) > uapi.LinesMax {
		return nil, ErrorTooManyLines
	}

	cfg := &uapi.LineConfig{}
	attrIdx := 0

	/*
	 * If any line is configured as an output, one attribute carries
	 * the per-line output values.
	 */
	if c.hasOutputDirection() {
		mask, values := c.outputValues(offsets)
		if mask != 0 {
			attr := &cfg.Attrs[attrIdx]
			attrIdx++

			attr.Attr.SetOutputValues(values)
			attr.Mask = mask
		}
	}

	/* A default debounce period takes another attribute. */
	if c.defaults.debouncePeriodUs != 0 {
		attr := &cfg.Attrs[attrIdx]
		attrIdx++

		attr.Attr.SetDebouncePeriod(c.defaults.debouncePeriodUs)
		attr.Mask = uapi.FilledLineMask(len(offsets))
	}

	err := c.processOverrides(cfg, &attrIdx, offsets,
		flagsEqual, overrideFlagsEqual, c.setFlagsAttr)
	if err != nil {
		return nil, err
	}

	err = c.processOverrides(cfg, &attrIdx, offsets,
		debounceEqual, overrideDebounceEqual, setDebounceAttr)
	if err != nil {
		return nil, err
	}

	cfg.Flags = kernelFlags(&c.defaults)
	cfg.NumAttrs = uint32(attrIdx)

	return cfg, nil
}
