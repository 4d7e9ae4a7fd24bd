package gpiochip

import (
	"errors"

	"github.com/BertoldVdb/go-gpiocdev/lineconf"
)

// Convenience wrappers for the common one-line cases, so simple
// consumers do not have to build a configuration themselves.

var (
	ErrorNotSingleLine = errors.New("Request does not hold a single line")
	ErrorNotInput      = errors.New("Line is not an input")
)

func requestSingle(path string, consumer string, offset uint32, cfg *lineconf.Config) (*Request, error) {
	chip, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer chip.Close()

	return chip.RequestLines(RequestConfig{Consumer: consumer}, cfg, []uint32{offset})
}

// RequestInput requests a single line on the chip at path as an
// input with otherwise default settings.
func RequestInput(path string, consumer string, offset uint32) (*Request, error) {
	cfg := lineconf.New()
	cfg.SetDirectionDefault(lineconf.DirectionInput)

	return requestSingle(path, consumer, offset, cfg)
}

// RequestOutput requests a single line on the chip at path as an
// output driven to value, with otherwise default settings.
func RequestOutput(path string, consumer string, offset uint32, value bool) (*Request, error) {
	cfg := lineconf.New()
	cfg.SetDirectionDefault(lineconf.DirectionOutput)
	cfg.SetOutputValueDefault(value)

	return requestSingle(path, consumer, offset, cfg)
}

// settingsFromInfo rebuilds an input line's configuration from its
// reported state, for requests made without keeping the original
// configuration around.
func settingsFromInfo(info *LineInfo) *lineconf.Config {
	cfg := lineconf.New()
	cfg.SetDirectionDefault(lineconf.DirectionInput)
	cfg.SetBiasDefault(info.Bias)
	cfg.SetEdgeDetectionDefault(info.EdgeDetection)

	if info.Debounced {
		cfg.SetDebouncePeriodDefault(info.DebouncePeriodUs)
	}

	return cfg
}

func (r *Request) lineSettings() (*lineconf.Config, error) {
	if len(r.offsets) != 1 {
		return nil, ErrorNotSingleLine
	}

	chip, err := Open("/dev/" + r.chipName)
	if err != nil {
		return nil, err
	}

	info, err := chip.LineInfo(r.offsets[0])
	chip.Close()
	if err != nil {
		return nil, err
	}

	if info.Direction != lineconf.DirectionInput {
		return nil, ErrorNotInput
	}

	return settingsFromInfo(&info), nil
}

// SetBias changes the bias of a single-line input request, keeping
// its other settings.
func (r *Request) SetBias(bias lineconf.Bias) error {
	cfg, err := r.lineSettings()
	if err != nil {
		return err
	}

	cfg.SetBiasDefault(bias)

	return r.Reconfigure(cfg)
}

// SetDebouncePeriod changes the debounce period of a single-line
// input request, keeping its other settings.
func (r *Request) SetDebouncePeriod(periodUs uint32) error {
	cfg, err := r.lineSettings()
	if err != nil {
		return err
	}

	cfg.SetDebouncePeriodDefault(periodUs)

	return r.Reconfigure(cfg)
}

// SetEdgeDetection changes the watched edges of a single-line input
// request, keeping its other settings.
func (r *Request) SetEdgeDetection(edge lineconf.Edge) error {
	cfg, err := r.lineSettings()
	if err != nil {
		return err
	}

	cfg.SetEdgeDetectionDefault(edge)

	return r.Reconfigure(cfg)
}
