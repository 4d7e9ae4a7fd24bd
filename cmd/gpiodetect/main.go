// gpiodetect lists the GPIO chips present in the system, with their
// labels and line counts.
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/BertoldVdb/go-gpiocdev/gpiochip"
	"github.com/BertoldVdb/go-gpiocdev/logrusconfig"
	"github.com/BertoldVdb/go-gpiocdev/resolver"
)

func main() {
	logrusconfig.InitParam()
	pflag.Parse()

	logger := logrusconfig.GetLogger(logrus.InfoLevel)

	args := pflag.Args()
	if len(args) == 0 {
		args = []string{""}
	}

	for _, id := range args {
		paths, err := resolver.ChipPaths(id)
		if err != nil {
			logger.WithError(err).Fatalln("Failed to look up chip", id)
		}

		for _, path := range paths {
			chip, err := gpiochip.Open(path)
			if err != nil {
				logger.WithError(err).Fatalln("Failed to open chip", path)
			}

			info := chip.Info()
			fmt.Printf("%s [%s] (%d lines)\n", info.Name, info.Label, info.Lines)

			chip.Close()
		}
	}
}
