package main

import (
	"fmt"
	"os"

	"github.com/sadopc/studytrack/internal/clock"
)

func main() {
	if err := newRootCmd(clock.System{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
