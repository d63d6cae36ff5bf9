package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nutrimatic-go/nutrimatic/index"
)

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "print every n-gram in an index, lexicographic order",
		ArgsUsage: "in.index",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: nutrimatic dump in.index", 2)
			}
			r, err := index.Open(c.Args().Get(0))
			if err != nil {
				return cli.Exit(fmt.Sprintf("dump: %v", err), 1)
			}
			defer r.Close()

			w, err := index.NewWalker(r, r.Root(), r.Total())
			if err != nil {
				return cli.Exit(fmt.Sprintf("dump: %v", err), 1)
			}
			for w.Text != nil {
				fmt.Printf("%5d [%s]\n", w.Count, w.Text)
				if err := w.Next(); err != nil {
					return cli.Exit(fmt.Sprintf("dump: %v", err), 1)
				}
			}
			return nil
		},
	}
}
