// Command flipcurve prints flip spring curves and stagger tables.
package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/flip/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
