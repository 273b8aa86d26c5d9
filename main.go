package main

import (
	"os"

	"github.com/sprouthq/sprout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
