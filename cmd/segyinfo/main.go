// Command segyinfo inspects, indexes, catalogs and archives SEG-Y files.
package main

import (
	"fmt"
	"os"

	"github.com/eunmann/segyio/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
