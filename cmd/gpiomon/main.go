// gpiomon watches a set of GPIO lines for edge events and prints
// them as they arrive.
package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/BertoldVdb/go-gpiocdev/gpiochip"
	"github.com/BertoldVdb/go-gpiocdev/lineconf"
	"github.com/BertoldVdb/go-gpiocdev/logrusconfig"
	"github.com/BertoldVdb/go-gpiocdev/resolver"
)

func parseBias(logger *logrus.Entry, bias string) lineconf.Bias {
	switch strings.ToLower(bias) {
	case "as-is":
		return lineconf.BiasAsIs
	case "pull-up":
		return lineconf.BiasPullUp
	case "pull-down":
		return lineconf.BiasPullDown
	case "disabled":
		return lineconf.BiasDisabled
	}

	logger.Fatalln("Invalid bias:", bias)
	return lineconf.BiasAsIs
}

func checkBufferSize(size int) (uint32, error) {
	if size < 0 {
		return 0, errors.New("Event buffer size cannot be negative")
	}

	return uint32(size), nil
}

func parseEdges(logger *logrus.Entry, edges string) lineconf.Edge {
	switch strings.ToLower(edges) {
	case "rising":
		return lineconf.EdgeRising
	case "falling":
		return lineconf.EdgeFalling
	case "both":
		return lineconf.EdgeBoth
	}

	logger.Fatalln("Invalid edges:", edges)
	return lineconf.EdgeBoth
}

type chipEvent struct {
	chipName string
	event    gpiochip.EdgeEvent
}

func watchRequest(logger *logrus.Entry, req *gpiochip.Request, events chan<- chipEvent) {
	for {
		evs, err := req.ReadEdgeEvents(16)
		if err != nil {
			logger.WithError(err).Fatalln("Failed to read events from", req.ChipName())
		}

		for _, ev := range evs {
			events <- chipEvent{chipName: req.ChipName(), event: ev}
		}
	}
}

func main() {
	logrusconfig.InitParam()
	chipID := pflag.StringP("chip", "c", "", "Restrict the search to a single chip")
	byName := pflag.Bool("by-name", false, "Treat the line arguments as names even if they parse as offsets")
	strict := pflag.Bool("strict", false, "Require every line to match exactly once")
	activeLow := pflag.BoolP("active-low", "l", false, "Treat the lines as active low")
	bias := pflag.StringP("bias", "b", "as-is", "Bias to apply: as-is, pull-up, pull-down or disabled")
	edges := pflag.StringP("edges", "e", "both", "Edges to watch: rising, falling or both")
	debouncePeriod := pflag.DurationP("debounce-period", "p", 0, "Debounce period to apply to the lines")
	realtime := pflag.Bool("event-clock-realtime", false, "Timestamp events on the realtime clock")
	numEvents := pflag.IntP("num-events", "n", 0, "Exit after this many events. Zero means run forever")
	bufferSize := pflag.Int("event-buffer-size", 0, "Suggested kernel event buffer size. Zero keeps the kernel default")
	consumer := pflag.StringP("consumer", "C", "gpiomon", "Consumer name to report to the kernel")
	pflag.Parse()

	logger := logrusconfig.GetLogger(logrus.InfoLevel)

	eventBufferSize, err := checkBufferSize(*bufferSize)
	if err != nil {
		logger.WithError(err).Fatalln("Invalid event buffer size")
	}

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

	cfg := lineconf.New()
	cfg.SetEdgeDetectionDefault(parseEdges(logger, *edges))
	cfg.SetActiveLowDefault(*activeLow)
	cfg.SetBiasDefault(parseBias(logger, *bias))
	cfg.SetDebouncePeriodDefault(uint32(debouncePeriod.Microseconds()))

	if *realtime {
		cfg.SetEventClockDefault(lineconf.EventClockRealtime)
	}

	events := make(chan chipEvent)

	for _, path := range resolver.ChipPathsByLine(lines) {
		offsets := resolver.LinesOnChip(lines, path)

		chip, err := gpiochip.Open(path)
		if err != nil {
			logger.WithError(err).Fatalln("Failed to open chip", path)
		}

		req, err := chip.RequestLines(gpiochip.RequestConfig{
			Consumer:        *consumer,
			EventBufferSize: eventBufferSize,
		}, cfg, offsets)
		chip.Close()
		if err != nil {
			logger.WithError(err).Fatalln("Failed to request lines on", path)
		}

		go watchRequest(logger, req, events)
	}

	for count := 0; *numEvents == 0 || count < *numEvents; count++ {
		ev := <-events

		edge := "rising"
		if ev.event.Type == gpiochip.EdgeEventFalling {
			edge = "falling"
		}

		ts := time.Duration(ev.event.TimestampNs) * time.Nanosecond

		fmt.Printf("%s %7s %s %d\n", ts, edge, ev.chipName, ev.event.Offset)
	}
}
