// Command nutrimatic is the §6 CLI surface: seven subcommands wrapping
// ingest, shard, index, pattern, filter, and search into the runnable
// entry point the rest of the module is exercised through.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func buildApp() *cli.App {
	return &cli.App{
		Name:  "nutrimatic",
		Usage: "constraint search over a word-sequence index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "optional TOML file overriding search-tuning defaults",
			},
		},
		Commands: []*cli.Command{
			buildCommand(),
			mergeCommand(),
			dumpCommand(),
			exploreCommand(),
			findExprCommand(),
			findAnagramsCommand(),
			findPhoneWordsCommand(),
		},
		// The library's default ExitErrHandler calls os.Exit itself
		// whenever an Action returns a cli.ExitCoder, which would kill an
		// in-process test driving buildApp().Run directly. Exiting is
		// main's job instead; Run always returns control here.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func main() {
	err := buildApp().Run(os.Args)
	if err == nil {
		return
	}
	if ec, ok := err.(cli.ExitCoder); ok {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(ec.ExitCode())
	}
	fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
	os.Exit(1)
}
