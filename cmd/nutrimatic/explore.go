package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/nutrimatic-go/nutrimatic/index"
)

func exploreCommand() *cli.Command {
	return &cli.Command{
		Name:      "explore",
		Usage:     "walk an index from a path, descending to the highest-count children first",
		ArgsUsage: "in.index path [depth]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return cli.Exit("usage: nutrimatic explore in.index path [depth]", 2)
			}
			r, err := index.Open(c.Args().Get(0))
			if err != nil {
				return cli.Exit(fmt.Sprintf("explore: %v", err), 1)
			}
			defer r.Close()

			path := c.Args().Get(1)
			depth := len(path)
			if c.NArg() > 2 {
				depth, err = strconv.Atoi(c.Args().Get(2))
				if err != nil || depth == 0 {
					return cli.Exit(fmt.Sprintf("invalid depth %q", c.Args().Get(2)), 2)
				}
			}

			fmt.Printf("Root (%d) @%d\n", r.Total(), r.Root())
			sofar := make([]byte, 0, 64)
			if err := exploreWalk(r, r.Root(), r.Total(), path, depth, &sofar); err != nil {
				return cli.Exit(fmt.Sprintf("explore: %v", err), 1)
			}
			return nil
		},
	}
}

// exploreWalk mirrors trunk/explore-index.cpp's recursive walk(): while
// path still has characters, descend along that single byte at each
// level; once exhausted, fan out over the full byte range. Children are
// always visited highest-count first, not in on-disk byte order.
func exploreWalk(r *index.Reader, node index.Node, count int64, path string, depth int, sofar *[]byte) error {
	if depth == 0 {
		return nil
	}
	lo, hi, rest := byte(0x00), byte(0xFF), path
	if len(path) > 0 {
		lo, hi, rest = path[0], path[0], path[1:]
	}
	_, children, err := r.Children(node, count, lo, hi)
	if err != nil {
		return err
	}
	sort.SliceStable(children, func(i, j int) bool { return children[i].Count > children[j].Count })

	for _, ch := range children {
		*sofar = append(*sofar, ch.Byte)
		fmt.Printf("%s (%d) @%d\n", *sofar, ch.Count, ch.Next)
		if err := exploreWalk(r, ch.Next, ch.Count, rest, depth-1, sofar); err != nil {
			return err
		}
		*sofar = (*sofar)[:len(*sofar)-1]
	}
	return nil
}
