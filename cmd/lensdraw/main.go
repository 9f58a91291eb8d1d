// Command lensdraw tabulates, draws and catalogs optical lenses.
package main

import (
	"errors"
	"fmt"
	"os"

	"honnef.co/go/lens/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own failures; only cobra's usage errors
		// reach this point unreported.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(exitErr.Code)
	}
}
