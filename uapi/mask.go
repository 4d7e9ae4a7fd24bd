package uapi

// LineMask is a 64-bit bitmap indexed by position in the request's
// offset array, not by hardware offset.
type LineMask uint64

// FilledLineMask returns a mask with the first n bits set.
func FilledLineMask(n int) LineMask {
	if n >= 64 {
		return ^LineMask(0)
	}
	return LineMask(1)<<uint(n) - 1
}

func (m LineMask) TestBit(n int) bool {
	return m&(1<<uint(n)) != 0
}

func (m *LineMask) SetBit(n int) {
	*m |= 1 << uint(n)
}

func (m *LineMask) ClearBit(n int) {
	*m &^= 1 << uint(n)
}

// AssignBit sets or clears bit n depending on value.
func (m *LineMask) AssignBit(n int, value bool) {
	if value {
		m.SetBit(n)
	} else {
		m.ClearBit(n)
	}
}
