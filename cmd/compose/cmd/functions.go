package cmd

import (
	"fmt"

	"github.com/go-drift/compose/pkg/bindexpr"
)

func init() {
	RegisterCommand(&Command{
		Name:  "functions",
		Short: "List the functions usable in format groups",
		Long:  `List the functions that format expression groups may call, such as upper or round.`,
		Usage: "compose functions",
		Run:   runFunctions,
	})
}

func runFunctions(args []string) error {
	for _, name := range bindexpr.Functions() {
		fmt.Fprintln(stdout, name)
	}
	return nil
}
