// Package gpiochip opens GPIO character devices and requests sets of
// lines from them. Line configurations are built with the lineconf
// package and handed to the kernel when the request is made.
package gpiochip

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/BertoldVdb/go-gpiocdev/lineconf"
	"github.com/BertoldVdb/go-gpiocdev/uapi"
)

type Chip struct {
	file      *os.File
	path      string
	chipInfo  ChipInfo
	lineNames map[string](uint32)
}

type ChipInfo struct {
	Name  string
	Label string
	Lines uint32
}

// IsChipDevice reports whether path is a GPIO character device, by
// checking that it is a character device whose sysfs subsystem is
// gpio.
func IsChipDevice(path string) bool {
	var st unix.Stat_t

	err := unix.Stat(path, &st)
	if err != nil || st.Mode&unix.S_IFMT != unix.S_IFCHR {
		return false
	}

	sysfs := fmt.Sprintf("/sys/dev/char/%d:%d/subsystem",
		unix.Major(st.Rdev), unix.Minor(st.Rdev))

	target, err := os.Readlink(sysfs)
	if err != nil {
		return false
	}

	return strings.HasSuffix(target, "/gpio")
}

func (g *Chip) readChipInfo() error {
	ci, err := uapi.GetChipInfo(g.file.Fd())
	if err != nil {
		return err
	}

	g.chipInfo.Name = bytesToString(ci.Name[:])
	g.chipInfo.Label = bytesToString(ci.Label[:])
	g.chipInfo.Lines = ci.Lines

	return nil
}

func (g *Chip) readLineNames() error {
	names := make(map[string](uint32))

	for i := uint32(0); i < g.chipInfo.Lines; i++ {
		li, err := uapi.GetLineInfo(g.file.Fd(), i)
		if err != nil {
			return err
		}

		name := bytesToString(li.Name[:])
		if name == "" {
			continue
		}

		/* Names can repeat, the first match wins. */
		if _, found := names[name]; !found {
			names[name] = i
		}
	}

	g.lineNames = names

	return nil
}

// Open opens the GPIO character device at path.
func Open(path string) (*Chip, error) {
	if !IsChipDevice(path) {
		return nil, errors.New("Not a GPIO character device")
	}

	g := &Chip{path: path}

	var err error
	g.file, err = os.OpenFile(path, unix.O_RDWR|unix.O_NOCTTY, 0600)
	if err != nil {
		return nil, err
	}

	err = g.readChipInfo()
	if err != nil {
		g.file.Close()
		return nil, err
	}

	err = g.readLineNames()
	if err != nil {
		g.file.Close()
		return nil, err
	}

	return g, nil
}

// OpenByNumber opens /dev/gpiochip<num>.
func OpenByNumber(num int) (*Chip, error) {
	return Open(fmt.Sprintf("/dev/gpiochip%d", num))
}

func (g *Chip) Close() error {
	return g.file.Close()
}

func (g *Chip) Info() ChipInfo {
	return g.chipInfo
}

func (g *Chip) Path() string {
	return g.path
}

// Name returns the chip's device name (e.g. gpiochip0).
func (g *Chip) Name() string {
	if g.chipInfo.Name != "" {
		return g.chipInfo.Name
	}
	return filepath.Base(g.path)
}

// LineInfo returns the current state of one line.
func (g *Chip) LineInfo(offset uint32) (LineInfo, error) {
	if offset >= g.chipInfo.Lines {
		return LineInfo{}, errors.New("Line out of range")
	}

	li, err := uapi.GetLineInfo(g.file.Fd(), offset)
	if err != nil {
		return LineInfo{}, err
	}

	return lineInfoFromKernel(&li), nil
}

// WatchLineInfo enables state change notification for one line and
// returns its current state. Changes are read with ReadInfoEvent.
func (g *Chip) WatchLineInfo(offset uint32) (LineInfo, error) {
	if offset >= g.chipInfo.Lines {
		return LineInfo{}, errors.New("Line out of range")
	}

	li, err := uapi.WatchLineInfo(g.file.Fd(), offset)
	if err != nil {
		return LineInfo{}, err
	}

	return lineInfoFromKernel(&li), nil
}

// UnwatchLineInfo disables state change notification for one line.
func (g *Chip) UnwatchLineInfo(offset uint32) error {
	if offset >= g.chipInfo.Lines {
		return errors.New("Line out of range")
	}

	return uapi.UnwatchLineInfo(g.file.Fd(), offset)
}

// WaitInfoEvent waits until an info event is pending on the chip. A
// negative timeout blocks indefinitely. Returns false on timeout.
func (g *Chip) WaitInfoEvent(timeout time.Duration) (bool, error) {
	return uapi.PollForRead(g.file.Fd(), pollTimeoutMs(timeout))
}

// ReadInfoEvent reads one pending info event. It blocks if no event
// is pending, use WaitInfoEvent first to avoid that.
func (g *Chip) ReadInfoEvent() (InfoEvent, error) {
	lic, err := uapi.ReadLineInfoChanged(g.file.Fd())
	if err != nil {
		return InfoEvent{}, err
	}

	return infoEventFromKernel(&lic), nil
}

// FindLine returns the offset of the line with the given name. If
// multiple lines share the name, the lowest offset is returned.
func (g *Chip) FindLine(name string) (uint32, error) {
	if offset, found := g.lineNames[name]; found {
		return offset, nil
	}

	return 0, errors.New("Name not found")
}

// RequestConfig carries the request properties that are not per-line:
// the consumer label applied to the lines and the kernel event buffer
// size (0 selects the kernel default).
type RequestConfig struct {
	Consumer        string
	EventBufferSize uint32
}

// RequestLines compiles lineCfg against offsets and asks the kernel
// for exclusive control of those lines. Compiler failures are
// returned unchanged.
func (g *Chip) RequestLines(reqCfg RequestConfig, lineCfg *lineconf.Config, offsets []uint32) (*Request, error) {
	if len(offsets) == 0 || len(offsets) > uapi.LinesMax {
		return nil, errors.New("Invalid number of lines")
	}

	kcfg, err := lineCfg.Compile(offsets)
	if err != nil {
		return nil, err
	}

	req := uapi.LineRequest{
		Config:          *kcfg,
		NumLines:        uint32(len(offsets)),
		EventBufferSize: reqCfg.EventBufferSize,
	}
	stringToBytes(reqCfg.Consumer, req.Consumer[:])

	for i, offset := range offsets {
		if offset >= g.chipInfo.Lines {
			return nil, errors.New("Line out of range")
		}

		req.Offsets[i] = offset
	}

	err = uapi.GetLine(g.file.Fd(), &req)
	if err != nil {
		return nil, err
	}

	if req.Fd <= 0 {
		return nil, errors.New("Invalid file descriptor returned")
	}

	r := &Request{
		file:     os.NewFile(uintptr(req.Fd), g.path),
		chipName: g.Name(),
		offsets:  append([]uint32(nil), offsets...),
	}

	return r, nil
}

func pollTimeoutMs(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}

	return int(timeout / time.Millisecond)
}
