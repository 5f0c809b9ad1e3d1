package main

import (
	"os"

	"github.com/vzahanych/owm-weather-tool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
