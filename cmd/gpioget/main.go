// gpioget reads the values of a set of GPIO lines.
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

func main() {
	logrusconfig.InitParam()
	chipID := pflag.StringP("chip", "c", "", "Restrict the search to a single chip")
	byName := pflag.Bool("by-name", false, "Treat the line arguments as names even if they parse as offsets")
	strict := pflag.Bool("strict", false, "Require every line to match exactly once")
	activeLow := pflag.BoolP("active-low", "l", false, "Treat the lines as active low")
	bias := pflag.StringP("bias", "b", "as-is", "Bias to apply: as-is, pull-up, pull-down or disabled")
	asIs := pflag.BoolP("as-is", "a", false, "Read the lines in their current direction instead of forcing input")
	numeric := pflag.Bool("numeric", false, "Print 0 or 1 instead of inactive or active")
	consumer := pflag.StringP("consumer", "C", "gpioget", "Consumer name to report to the kernel")
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

	cfg := lineconf.New()
	if !*asIs {
		cfg.SetDirectionDefault(lineconf.DirectionInput)
	}
	cfg.SetActiveLowDefault(*activeLow)
	cfg.SetBiasDefault(parseBias(logger, *bias))

	type lineKey struct {
		chipPath string
		offset   uint32
	}

	values := make(map[lineKey]bool)

	for _, path := range resolver.ChipPathsByLine(lines) {
		offsets := resolver.LinesOnChip(lines, path)

		chip, err := gpiochip.Open(path)
		if err != nil {
			logger.WithError(err).Fatalln("Failed to open chip", path)
		}

		req, err := chip.RequestLines(gpiochip.RequestConfig{Consumer: *consumer}, cfg, offsets)
		chip.Close()
		if err != nil {
			logger.WithError(err).Fatalln("Failed to request lines on", path)
		}

		chipValues, err := req.Values()
		req.Close()
		if err != nil {
			logger.WithError(err).Fatalln("Failed to read values on", path)
		}

		for i, offset := range offsets {
			values[lineKey{path, offset}] = chipValues[i]
		}
	}

	var out []string

	for _, line := range lines {
		value := values[lineKey{line.ChipPath, line.Offset}]

		if *numeric {
			v := 0
			if value {
				v = 1
			}
			out = append(out, fmt.Sprintf("%d", v))
		} else {
			state := "inactive"
			if value {
				state = "active"
			}
			out = append(out, fmt.Sprintf("%s=%s", line.ID, state))
		}
	}

	fmt.Println(strings.Join(out, " "))
}
