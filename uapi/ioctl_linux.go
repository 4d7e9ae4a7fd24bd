package uapi

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

type ioctl uintptr

const (
	iocWrite = 1
	iocRead  = 2

	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, typ, nr, size uintptr) ioctl {
	return ioctl(dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNrShift | size<<iocSizeShift)
}

func ior(typ, nr, size uintptr) ioctl {
	return ioc(iocRead, typ, nr, size)
}

func iorw(typ, nr, size uintptr) ioctl {
	return ioc(iocRead|iocWrite, typ, nr, size)
}

var (
	getChipInfoIoctl     ioctl
	getLineInfoIoctl     ioctl
	watchLineInfoIoctl   ioctl
	getLineIoctl         ioctl
	unwatchLineInfoIoctl ioctl
	setLineConfigIoctl   ioctl
	getLineValuesIoctl   ioctl
	setLineValuesIoctl   ioctl
)

func init() {
	/* The ioctl numbers depend on struct sizes. */
	var ci ChipInfo
	var li LineInfo
	var lr LineRequest
	var lc LineConfig
	var lv LineValues
	var offset uint32

	getChipInfoIoctl = ior(0xB4, 0x01, unsafe.Sizeof(ci))
	getLineInfoIoctl = iorw(0xB4, 0x05, unsafe.Sizeof(li))
	watchLineInfoIoctl = iorw(0xB4, 0x06, unsafe.Sizeof(li))
	getLineIoctl = iorw(0xB4, 0x07, unsafe.Sizeof(lr))
	unwatchLineInfoIoctl = iorw(0xB4, 0x0C, unsafe.Sizeof(offset))
	setLineConfigIoctl = iorw(0xB4, 0x0D, unsafe.Sizeof(lc))
	getLineValuesIoctl = iorw(0xB4, 0x0E, unsafe.Sizeof(lv))
	setLineValuesIoctl = iorw(0xB4, 0x0F, unsafe.Sizeof(lv))
}

func callIoctl(fd uintptr, cmd ioctl, data unsafe.Pointer) error {
	_, _, errNo := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(cmd), uintptr(data))
	if errNo != 0 {
		return errNo
	}

	return nil
}

// GetChipInfo returns the ChipInfo for an open GPIO character device.
func GetChipInfo(fd uintptr) (ChipInfo, error) {
	var ci ChipInfo

	err := callIoctl(fd, getChipInfoIoctl, unsafe.Pointer(&ci))
	if err != nil {
		return ChipInfo{}, err
	}

	return ci, nil
}

// GetLineInfo returns the LineInfo for one line of an open GPIO
// character device.
func GetLineInfo(fd uintptr, offset uint32) (LineInfo, error) {
	li := LineInfo{Offset: offset}

	err := callIoctl(fd, getLineInfoIoctl, unsafe.Pointer(&li))
	if err != nil {
		return LineInfo{}, err
	}

	return li, nil
}

// WatchLineInfo enables state change reporting for one line. The
// current info is returned.
func WatchLineInfo(fd uintptr, offset uint32) (LineInfo, error) {
	li := LineInfo{Offset: offset}

	err := callIoctl(fd, watchLineInfoIoctl, unsafe.Pointer(&li))
	if err != nil {
		return LineInfo{}, err
	}

	return li, nil
}

// UnwatchLineInfo disables state change reporting for one line.
func UnwatchLineInfo(fd uintptr, offset uint32) error {
	return callIoctl(fd, unwatchLineInfoIoctl, unsafe.Pointer(&offset))
}

// GetLine requests a set of lines. On success the kernel stores the
// fd for the granted lines in request.Fd.
func GetLine(fd uintptr, request *LineRequest) error {
	return callIoctl(fd, getLineIoctl, unsafe.Pointer(request))
}

// SetLineConfig replaces the configuration of an existing request.
func SetLineConfig(fd uintptr, config *LineConfig) error {
	return callIoctl(fd, setLineConfigIoctl, unsafe.Pointer(config))
}

// GetLineValues reads the values of the lines selected by
// values.Mask from a request fd.
func GetLineValues(fd uintptr, values *LineValues) error {
	return callIoctl(fd, getLineValuesIoctl, unsafe.Pointer(values))
}

// SetLineValues writes the values of the lines selected by
// values.Mask on a request fd.
func SetLineValues(fd uintptr, values *LineValues) error {
	return callIoctl(fd, setLineValuesIoctl, unsafe.Pointer(values))
}

// ReadLineEvent reads a single edge event from a request fd. The fd
// must be ready to read or the call blocks.
func ReadLineEvent(fd uintptr) (LineEvent, error) {
	var le LineEvent

	err := readStruct(fd, unsafe.Pointer(&le), unsafe.Sizeof(le))
	if err != nil {
		return LineEvent{}, err
	}

	return le, nil
}

// ReadLineEvents reads up to max edge events from a request fd in a
// single read. The fd must be ready to read or the call blocks.
func ReadLineEvents(fd uintptr, max int) ([]LineEvent, error) {
	size := int(unsafe.Sizeof(LineEvent{}))
	buf := make([]byte, size*max)

	n, err := unix.Read(int(fd), buf)
	if err != nil {
		return nil, err
	}
	if n%size != 0 {
		return nil, unix.EIO
	}

	events := make([]LineEvent, n/size)
	for i := range events {
		events[i] = *(*LineEvent)(unsafe.Pointer(&buf[i*size]))
	}

	return events, nil
}

// ReadLineInfoChanged reads a single info change event from a chip fd.
func ReadLineInfoChanged(fd uintptr) (LineInfoChanged, error) {
	var lic LineInfoChanged

	err := readStruct(fd, unsafe.Pointer(&lic), unsafe.Sizeof(lic))
	if err != nil {
		return LineInfoChanged{}, err
	}

	return lic, nil
}

func readStruct(fd uintptr, data unsafe.Pointer, size uintptr) error {
	buf := unsafe.Slice((*byte)(data), size)

	n, err := unix.Read(int(fd), buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return unix.EIO
	}

	return nil
}

// PollForRead waits until fd is readable or timeoutMs expires. A
// negative timeout blocks indefinitely. Returns false on timeout.
func PollForRead(fd uintptr, timeoutMs int) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		n, err := unix.Poll(fds, timeoutMs)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}

		return n > 0, nil
	}
}
