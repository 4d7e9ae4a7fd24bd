// gpioinfo prints the lines of the system's GPIO chips together with
// their current configuration.
package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/BertoldVdb/go-gpiocdev/gpiochip"
	"github.com/BertoldVdb/go-gpiocdev/lineconf"
	"github.com/BertoldVdb/go-gpiocdev/logrusconfig"
	"github.com/BertoldVdb/go-gpiocdev/resolver"
)

func lineAttrs(li *gpiochip.LineInfo) string {
	var attrs []string

	if li.Direction == lineconf.DirectionOutput {
		attrs = append(attrs, "output")
	} else {
		attrs = append(attrs, "input")
	}

	if li.ActiveLow {
		attrs = append(attrs, "active-low")
	}

	switch li.Drive {
	case lineconf.DriveOpenDrain:
		attrs = append(attrs, "open-drain")
	case lineconf.DriveOpenSource:
		attrs = append(attrs, "open-source")
	}

	switch li.Bias {
	case lineconf.BiasPullUp:
		attrs = append(attrs, "pull-up")
	case lineconf.BiasPullDown:
		attrs = append(attrs, "pull-down")
	case lineconf.BiasDisabled:
		attrs = append(attrs, "bias-disabled")
	}

	switch li.EdgeDetection {
	case lineconf.EdgeRising:
		attrs = append(attrs, "rising-edge")
	case lineconf.EdgeFalling:
		attrs = append(attrs, "falling-edge")
	case lineconf.EdgeBoth:
		attrs = append(attrs, "both-edges")
	}

	if li.EventClock == lineconf.EventClockRealtime {
		attrs = append(attrs, "event-clock-realtime")
	}

	if li.Debounced {
		attrs = append(attrs, fmt.Sprintf("debounce-period=%dus", li.DebouncePeriodUs))
	}

	return strings.Join(attrs, " ")
}

func printChip(chip *gpiochip.Chip) error {
	info := chip.Info()
	fmt.Printf("%s - %d lines:\n", info.Name, info.Lines)

	for offset := uint32(0); offset < info.Lines; offset++ {
		li, err := chip.LineInfo(offset)
		if err != nil {
			return err
		}

		name := "unnamed"
		if li.Name != "" {
			name = "\"" + li.Name + "\""
		}

		consumer := "unused"
		if li.Used {
			consumer = "kernel"
			if li.Consumer != "" {
				consumer = "\"" + li.Consumer + "\""
			}
		}

		fmt.Printf("\tline %3d: %20s %20s [%s]\n", offset, name, consumer, lineAttrs(&li))
	}

	return nil
}

func main() {
	logrusconfig.InitParam()
	chipID := pflag.String("chip", "", "Restrict output to a single chip")
	pflag.Parse()

	logger := logrusconfig.GetLogger(logrus.InfoLevel)

	paths, err := resolver.ChipPaths(*chipID)
	if err != nil {
		logger.WithError(err).Fatalln("Failed to look up chips")
	}

	for _, path := range paths {
		chip, err := gpiochip.Open(path)
		if err != nil {
			logger.WithError(err).Fatalln("Failed to open chip", path)
		}

		err = printChip(chip)
		chip.Close()

		if err != nil {
			logger.WithError(err).Fatalln("Failed to read line info from", path)
		}
	}
}
