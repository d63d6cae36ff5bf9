package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/nutrimatic-go/nutrimatic/shard"
)

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "k-way merge shard files into one index, folding n-grams below cutoff",
		ArgsUsage: "cutoff shard... out.index",
		Action: func(c *cli.Context) error {
			if c.NArg() < 3 {
				return cli.Exit("usage: nutrimatic merge cutoff shard... out.index", 2)
			}
			args := c.Args().Slice()
			cutoff, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || cutoff < 1 {
				return cli.Exit(fmt.Sprintf("bad cutoff %q", args[0]), 2)
			}
			shards, out := args[1:len(args)-1], args[len(args)-1]
			if _, _, err := shard.MergeFiles(out, cutoff, shards); err != nil {
				return cli.Exit(fmt.Sprintf("merge: %v", err), 1)
			}
			return nil
		},
	}
}
