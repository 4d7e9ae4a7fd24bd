// gpioset drives a set of GPIO lines to the requested values and
// holds them until the hold period expires or the process is
// interrupted.
package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
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

func parseDrive(logger *logrus.Entry, drive string) lineconf.Drive {
	switch strings.ToLower(drive) {
	case "push-pull":
		return lineconf.DrivePushPull
	case "open-drain":
		return lineconf.DriveOpenDrain
	case "open-source":
		return lineconf.DriveOpenSource
	}

	logger.Fatalln("Invalid drive:", drive)
	return lineconf.DrivePushPull
}

func parseValue(logger *logrus.Entry, value string) bool {
	switch strings.ToLower(value) {
	case "0", "inactive", "off", "false":
		return false
	case "1", "active", "on", "true":
		return true
	}

	logger.Fatalln("Invalid value:", value)
	return false
}

func main() {
	logrusconfig.InitParam()
	chipID := pflag.StringP("chip", "c", "", "Restrict the search to a single chip")
	byName := pflag.Bool("by-name", false, "Treat the line arguments as names even if they parse as offsets")
	strict := pflag.Bool("strict", false, "Require every line to match exactly once")
	activeLow := pflag.BoolP("active-low", "l", false, "Treat the lines as active low")
	bias := pflag.StringP("bias", "b", "as-is", "Bias to apply: as-is, pull-up, pull-down or disabled")
	drive := pflag.StringP("drive", "d", "push-pull", "Drive to apply: push-pull, open-drain or open-source")
	holdPeriod := pflag.DurationP("hold-period", "p", 0, "Time to hold the lines before exiting. Zero means until interrupted")
	consumer := pflag.StringP("consumer", "C", "gpioset", "Consumer name to report to the kernel")
	pflag.Parse()

	logger := logrusconfig.GetLogger(logrus.InfoLevel)

	args := pflag.Args()
	if len(args) == 0 {
		logger.Fatalln("At least one line=value pair must be given")
	}

	ids := make([]string, len(args))
	values := make([]bool, len(args))

	for i, arg := range args {
		id, value, found := strings.Cut(arg, "=")
		if !found || id == "" {
			logger.Fatalln("Arguments must have the form line=value:", arg)
		}

		ids[i] = id
		values[i] = parseValue(logger, value)
	}

	lines, err := resolver.Lines(ids, resolver.Options{
		Chip:   *chipID,
		ByName: *byName,
		Strict: *strict,
	})
	if err != nil {
		logger.WithError(err).Fatalln("Failed to resolve lines")
	}

	var requests []*gpiochip.Request

	for _, path := range resolver.ChipPathsByLine(lines) {
		offsets := resolver.LinesOnChip(lines, path)

		/* Offsets are only unique within one chip, so each chip
		 * gets its own configuration. */
		cfg := lineconf.New()
		cfg.SetDirectionDefault(lineconf.DirectionOutput)
		cfg.SetActiveLowDefault(*activeLow)
		cfg.SetBiasDefault(parseBias(logger, *bias))
		cfg.SetDriveDefault(parseDrive(logger, *drive))

		chipValues := make([]bool, 0, len(offsets))
		for i, line := range lines {
			if line.ChipPath == path {
				chipValues = append(chipValues, values[i])
			}
		}

		err = cfg.SetOutputValues(offsets, chipValues)
		if err != nil {
			logger.WithError(err).Fatalln("Failed to configure lines on", path)
		}

		chip, err := gpiochip.Open(path)
		if err != nil {
			logger.WithError(err).Fatalln("Failed to open chip", path)
		}

		req, err := chip.RequestLines(gpiochip.RequestConfig{Consumer: *consumer}, cfg, offsets)
		chip.Close()
		if err != nil {
			logger.WithError(err).Fatalln("Failed to request lines on", path)
		}

		requests = append(requests, req)
	}

	if *holdPeriod > 0 {
		time.Sleep(*holdPeriod)
	} else {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	}

	for _, req := range requests {
		req.Close()
	}
}
