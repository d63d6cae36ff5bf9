package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nutrimatic-go/nutrimatic/filter"
	"github.com/nutrimatic-go/nutrimatic/index"
	"github.com/nutrimatic-go/nutrimatic/pattern"
	"github.com/nutrimatic-go/nutrimatic/search"
)

func findExprCommand() *cli.Command {
	return &cli.Command{
		Name:      "find-expr",
		Usage:     "search an index for strings matching a pattern expression",
		ArgsUsage: "in.index expression",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: nutrimatic find-expr in.index expression", 2)
			}

			d, err := pattern.Compile(c.Args().Get(1))
			if err != nil {
				var se *pattern.SyntaxError
				if errors.As(err, &se) {
					return cli.Exit(fmt.Sprintf("can't parse %q", se.Rest), 2)
				}
				if errors.Is(err, pattern.ErrInfeasible) {
					return cli.Exit("find-expr: pattern matches nothing", 1)
				}
				return cli.Exit(fmt.Sprintf("find-expr: %v", err), 1)
			}
			traceCompiled("find-expr pattern", d)
			dumpFSA(d)
			f := filter.New(d)
			if !filterFeasible(f) {
				return cli.Exit("find-expr: pattern matches nothing", 1)
			}

			r, err := index.Open(c.Args().Get(0))
			if err != nil {
				return cli.Exit(fmt.Sprintf("find-expr: %v", err), 1)
			}
			defer r.Close()

			cfg := loadConfig(c)
			drv := search.New(r, f, search.Options{Restart: cfg.Restart})
			if err := printLoop(drv, cfg); err != nil {
				return cli.Exit(fmt.Sprintf("find-expr: %v", err), 1)
			}
			return nil
		},
	}
}
