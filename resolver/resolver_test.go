package resolver

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BertoldVdb/go-gpiocdev/gpiochip"
)

func makeInfo(offset uint32, name string) gpiochip.LineInfo {
	return gpiochip.LineInfo{Offset: offset, Name: name}
}

func TestIsUint(t *testing.T) {
	require.True(t, isUint("0"))
	require.True(t, isUint("42"))
	require.False(t, isUint(""))
	require.False(t, isUint("-1"))
	require.False(t, isUint("4a"))
	require.False(t, isUint("gpiochip0"))
}

func TestChipPathLess(t *testing.T) {
	paths := []string{
		"/dev/gpiochip10",
		"/dev/gpiochip2",
		"/dev/gpiochip0",
		"/dev/gpiochip1",
	}

	sort.Slice(paths, func(i, j int) bool {
		return chipPathLess(paths[i], paths[j])
	})

	require.Equal(t, []string{
		"/dev/gpiochip0",
		"/dev/gpiochip1",
		"/dev/gpiochip2",
		"/dev/gpiochip10",
	}, paths)
}

func TestPendingLineMatch(t *testing.T) {
	p := pendingLine{id: "LED", offset: -1, idIsName: true}

	info := makeInfo(3, "BTN")
	require.False(t, p.match("/dev/gpiochip0", &info))

	info = makeInfo(5, "LED")
	require.True(t, p.match("/dev/gpiochip0", &info))
	require.Equal(t, uint32(5), p.resolved.Offset)
	require.Equal(t, "/dev/gpiochip0", p.resolved.ChipPath)

	byOffset := pendingLine{id: "5", offset: 5}
	info = makeInfo(5, "")
	require.True(t, byOffset.match("/dev/gpiochip1", &info))
}

func TestLineGrouping(t *testing.T) {
	lines := []ResolvedLine{
		{ID: "a", ChipPath: "/dev/gpiochip0", Offset: 1},
		{ID: "b", ChipPath: "/dev/gpiochip1", Offset: 7},
		{ID: "c", ChipPath: "/dev/gpiochip0", Offset: 4},
	}

	require.Equal(t, []string{"/dev/gpiochip0", "/dev/gpiochip1"}, ChipPathsByLine(lines))
	require.Equal(t, []uint32{1, 4}, LinesOnChip(lines, "/dev/gpiochip0"))
	require.Equal(t, []uint32{7}, LinesOnChip(lines, "/dev/gpiochip1"))
}
