package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nutrimatic-go/nutrimatic/filter"
	"github.com/nutrimatic-go/nutrimatic/index"
	"github.com/nutrimatic-go/nutrimatic/pattern"
	"github.com/nutrimatic-go/nutrimatic/search"
)

// findAnagramsCommand reuses the generic anagram compiler (package
// pattern's '<' Piece+ '>' syntax) instead of porting find-anagrams.cpp's
// bespoke AnagramFilter mixed-radix state machine: letters is wrapped as
// a single-letter-per-piece anagram expression and handed to the same
// pattern.Compile/filter.New path find-expr uses.
func findAnagramsCommand() *cli.Command {
	return &cli.Command{
		Name:      "find-anagrams",
		Usage:     "search an index for anagrams of a set of letters",
		ArgsUsage: "in.index letters",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: nutrimatic find-anagrams in.index letters", 2)
			}
			letters := c.Args().Get(1)
			for i := 0; i < len(letters); i++ {
				if letters[i] < 'a' || letters[i] > 'z' {
					return cli.Exit(fmt.Sprintf("find-anagrams: letters must be a-z, got %q", letters), 2)
				}
			}
			if letters == "" {
				return cli.Exit("find-anagrams: letters must not be empty", 2)
			}

			r, err := index.Open(c.Args().Get(0))
			if err != nil {
				return cli.Exit(fmt.Sprintf("find-anagrams: %v", err), 1)
			}
			defer r.Close()

			d, err := pattern.Compile("<" + letters + ">")
			if err != nil {
				return cli.Exit(fmt.Sprintf("find-anagrams: %v", err), 1)
			}
			traceCompiled("find-anagrams pattern", d)
			dumpFSA(d)
			f := filter.New(d)

			cfg := loadConfig(c)
			drv := search.New(r, f, search.Options{Restart: cfg.Restart})
			if err := printLoop(drv, cfg); err != nil {
				return cli.Exit(fmt.Sprintf("find-anagrams: %v", err), 1)
			}
			return nil
		},
	}
}
