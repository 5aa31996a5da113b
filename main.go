package main

import (
	"os"

	"github.com/skyops/nightplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
