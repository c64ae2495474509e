package main

import (
	"os"

	"github.com/ayusman/widgetexport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
