package main

import (
	"os"

	"github.com/hkuds/warelay/cmd/warelay/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
