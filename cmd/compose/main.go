// Command compose inspects bind expressions and compose.yaml settings.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/compose/cmd/compose/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
