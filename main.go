package main

import (
	"os"

	"github.com/MrSiJo/plugtrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
