package main

import (
	"os"

	"github.com/giftwish/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
