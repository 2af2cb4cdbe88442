package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/de-tools/statement-atlas/pkg/runtime/terminal"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Factory: terminal.DefaultFactory{},
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		if !errors.Is(err, terminal.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
