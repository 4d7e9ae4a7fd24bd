// gpiofind locates a GPIO line by name and prints the chip and
// offset that carry it.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/BertoldVdb/go-gpiocdev/logrusconfig"
	"github.com/BertoldVdb/go-gpiocdev/resolver"
)

func main() {
	logrusconfig.InitParam()
	pflag.Parse()

	logger := logrusconfig.GetLogger(logrus.InfoLevel)

	if pflag.NArg() != 1 {
		logger.Fatalln("Exactly one line name must be given")
	}

	name := pflag.Arg(0)

	chipPath, offset, err := resolver.FindLine(name)
	if err != nil {
		logger.WithError(err).Errorln("Failed to find line", name)
		os.Exit(1)
	}

	fmt.Printf("%s %d\n", filepath.Base(chipPath), offset)
}
