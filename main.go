package main

import (
	"os"

	"github.com/chemmaster/chemmaster/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
