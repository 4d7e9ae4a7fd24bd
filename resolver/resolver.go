// Package resolver locates GPIO lines across the chips present in the
// system, by name or by (chip, offset) pair.
package resolver

import (
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BertoldVdb/go-gpiocdev/gpiochip"
)

var (
	ErrorChipNotFound  = errors.New("Chip not found")
	ErrorLineNotFound  = errors.New("Line not found")
	ErrorLineNotUnique = errors.New("Line is not unique")
)

// ResolvedLine is one requested line bound to the chip that carries
// it.
type ResolvedLine struct {
	// ID is the identifier the caller supplied, either a line
	// name or a decimal offset.
	ID string

	ChipPath string
	Offset   uint32

	Info gpiochip.LineInfo
}

// Options controls how line identifiers are interpreted.
type Options struct {
	// Chip restricts the search to one chip. It may be a full
	// path, a device name or a chip number. Empty means all
	// chips.
	Chip string

	// ByName forces identifiers to be treated as names even when
	// they parse as numbers. Always the case when Chip is empty.
	ByName bool

	// Strict requires every identifier to match exactly one line.
	Strict bool
}

func isUint(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

func chipPathLookup(id string) (string, bool) {
	var path string

	switch {
	case isUint(id):
		path = "/dev/gpiochip" + id
	case strings.ContainsRune(id, '/'):
		path = id
	default:
		path = "/dev/" + id
	}

	return path, gpiochip.IsChipDevice(path)
}

// chipPathLess orders chip paths by the trailing chip number, so
// gpiochip2 sorts before gpiochip10.
func chipPathLess(a string, b string) bool {
	trim := func(in string) (string, int) {
		i := len(in)
		for i > 0 && in[i-1] >= '0' && in[i-1] <= '9' {
			i--
		}

		num, err := strconv.Atoi(in[i:])
		if err != nil {
			num = -1
		}

		return in[:i], num
	}

	aBase, aNum := trim(a)
	bBase, bNum := trim(b)

	if aBase != bBase {
		return aBase < bBase
	}

	return aNum < bNum
}

func allChipPaths() ([]string, error) {
	entries, err := os.ReadDir("/dev")
	if err != nil {
		return nil, err
	}

	var paths []string

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		path := "/dev/" + entry.Name()
		if gpiochip.IsChipDevice(path) {
			paths = append(paths, path)
		}
	}

	sort.Slice(paths, func(i, j int) bool {
		return chipPathLess(paths[i], paths[j])
	})

	return paths, nil
}

// ChipPaths returns the chip device paths matched by id, or every
// chip in the system when id is empty.
func ChipPaths(id string) ([]string, error) {
	if id == "" {
		return allChipPaths()
	}

	path, ok := chipPathLookup(id)
	if !ok {
		return nil, ErrorChipNotFound
	}

	return []string{path}, nil
}

type pendingLine struct {
	id       string
	offset   int
	idIsName bool

	found    bool
	resolved ResolvedLine
}

func (p *pendingLine) match(chipPath string, info *gpiochip.LineInfo) bool {
	if !p.idIsName {
		if info.Offset != uint32(p.offset) {
			return false
		}
	} else if info.Name == "" || info.Name != p.id {
		return false
	}

	p.found = true
	p.resolved = ResolvedLine{
		ID:       p.id,
		ChipPath: chipPath,
		Offset:   info.Offset,
		Info:     *info,
	}

	return true
}

// Lines resolves the given identifiers against the system's chips.
// The result keeps the order of ids. Identifiers that match no line
// fail with ErrorLineNotFound, and with Strict set an identifier
// matching more than one line fails with ErrorLineNotUnique.
func Lines(ids []string, opt Options) ([]ResolvedLine, error) {
	if opt.Chip == "" {
		opt.ByName = true
	}

	paths, err := ChipPaths(opt.Chip)
	if err != nil {
		return nil, err
	}

	pending := make([]pendingLine, len(ids))
	for i, id := range ids {
		pending[i].id = id
		pending[i].offset = -1

		if !opt.ByName && isUint(id) {
			pending[i].offset, _ = strconv.Atoi(id)
		}

		pending[i].idIsName = pending[i].offset < 0
	}

	numFound := 0

	done := func() bool {
		return !opt.Strict && numFound >= len(pending)
	}

	for _, path := range paths {
		if done() {
			break
		}

		chip, err := gpiochip.Open(path)
		if err != nil {
			/* Skip chips we may not open when scanning the
			 * whole system. */
			if opt.Chip == "" && errors.Is(err, os.ErrPermission) {
				continue
			}

			return nil, err
		}

		numLines := chip.Info().Lines

		for offset := uint32(0); offset < numLines && !done(); offset++ {
			info, err := chip.LineInfo(offset)
			if err != nil {
				chip.Close()
				return nil, err
			}

			for i := range pending {
				if pending[i].found {
					if opt.Strict && pending[i].match(path, &info) {
						chip.Close()
						return nil, ErrorLineNotUnique
					}

					continue
				}

				if pending[i].match(path, &info) {
					numFound++
				}
			}
		}

		chip.Close()
	}

	lines := make([]ResolvedLine, len(pending))
	for i := range pending {
		if !pending[i].found {
			return nil, ErrorLineNotFound
		}

		lines[i] = pending[i].resolved
	}

	return lines, nil
}

// FindLine returns the chip path and offset of the first line with
// the given name.
func FindLine(name string) (string, uint32, error) {
	lines, err := Lines([]string{name}, Options{})
	if err != nil {
		return "", 0, err
	}

	return lines[0].ChipPath, lines[0].Offset, nil
}

// ChipPathsByLine groups resolved lines by the chip that carries
// them, keeping chip order stable.
func ChipPathsByLine(lines []ResolvedLine) []string {
	var paths []string

	for _, line := range lines {
		seen := false
		for _, path := range paths {
			if path == line.ChipPath {
				seen = true
				break
			}
		}

		if !seen {
			paths = append(paths, line.ChipPath)
		}
	}

	return paths
}

// LinesOnChip filters lines down to those on the given chip and
// returns their offsets in resolution order.
func LinesOnChip(lines []ResolvedLine, chipPath string) []uint32 {
	var offsets []uint32

	for _, line := range lines {
		if line.ChipPath == chipPath {
			offsets = append(offsets, line.Offset)
		}
	}

	return offsets
}
