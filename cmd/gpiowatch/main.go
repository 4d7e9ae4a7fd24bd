// gpiowatch waits for changes to the state of a set of GPIO lines
// and prints them as they happen.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/BertoldVdb/go-gpiocdev/gpiochip"
	"github.com/BertoldVdb/go-gpiocdev/logrusconfig"
	"github.com/BertoldVdb/go-gpiocdev/resolver"
)

func eventName(t gpiochip.InfoEventType) string {
	switch t {
	case gpiochip.InfoEventLineRequested:
		return "REQUESTED"
	case gpiochip.InfoEventLineReleased:
		return "RELEASED"
	case gpiochip.InfoEventLineConfigChanged:
		return "RECONFIG"
	}

	return "UNKNOWN"
}

type chipEvent struct {
	chipName string
	event    gpiochip.InfoEvent
}

func main() {
	logrusconfig.InitParam()
	chipID := pflag.StringP("chip", "c", "", "Restrict the search to a single chip")
	byName := pflag.Bool("by-name", false, "Treat the line arguments as names even if they parse as offsets")
	strict := pflag.Bool("strict", false, "Require every line to match exactly once")
	pflag.Parse()

	logger := logrusconfig.GetLogger(logrus.InfoLevel)

	ids := pflag.Args()
	if len(ids) == 0 {
		logger.Fatalln("At least one line must be given")
	}

	lines, err := resolver.Lines(ids, resolver.Options{
		Chip:   *chipID,
		ByName: *byName,
		Strict: *strict,
	})
	if err != nil {
		logger.WithError(err).Fatalln("Failed to resolve lines")
	}

	events := make(chan chipEvent)

	for _, path := range resolver.ChipPathsByLine(lines) {
		chip, err := gpiochip.Open(path)
		if err != nil {
			logger.WithError(err).Fatalln("Failed to open chip", path)
		}

		for _, offset := range resolver.LinesOnChip(lines, path) {
			_, err = chip.WatchLineInfo(offset)
			if err != nil {
				logger.WithError(err).Fatalln("Failed to watch line on", path)
			}
		}

		name := chip.Name()
		gpiochip.NewInfoMonitor(chip, func(ev gpiochip.InfoEvent) {
			events <- chipEvent{chipName: name, event: ev}
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case ev := <-events:
			ts := time.Duration(ev.event.TimestampNs) * time.Nanosecond

			fmt.Printf("%s %-9s %s %d\n", ts, eventName(ev.event.Type),
				ev.chipName, ev.event.Info.Offset)
		case <-sig:
			return
		}
	}
}
