package main

import (
	"fmt"
	"os"

	"github.com/mochi-sys/teatally/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
