package main

import (
	"os"

	"github.com/arineng/foreman-ptable/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
