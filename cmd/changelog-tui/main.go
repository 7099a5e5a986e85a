// Changelog TUI is a terminal dashboard that shows the release notes of
// this application, starting from the first release the running build has
// not seen yet.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/litescript/ls-changelog-tui/internal/version"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("changelog-tui"),
		kong.Description("Browse release notes in the terminal."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Info()},
	)

	err := ctx.Run(&cli)
	if cerr := cli.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", cerr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
