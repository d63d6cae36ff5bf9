package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nutrimatic-go/nutrimatic/ingest"
)

// buildSpillBudget bounds the unique n-gram bytes an Ingestor buffers
// in memory before spilling a shard (§6's "out-prefix (stdin = corpus)").
const buildSpillBudget = 64 << 20

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "ingest a corpus from stdin into one or more shard files",
		ArgsUsage: "out-prefix",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: nutrimatic build out-prefix", 2)
			}
			g := ingest.NewIngestor(c.Args().Get(0), buildSpillBudget)
			if err := g.Ingest(os.Stdin); err != nil {
				return cli.Exit(fmt.Sprintf("build: %v", err), 1)
			}
			if _, err := g.Close(); err != nil {
				return cli.Exit(fmt.Sprintf("build: %v", err), 1)
			}
			return nil
		},
	}
}
