package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nutrimatic-go/nutrimatic/filter"
	"github.com/nutrimatic-go/nutrimatic/index"
	"github.com/nutrimatic-go/nutrimatic/pattern"
	"github.com/nutrimatic-go/nutrimatic/search"
)

// phoneLetters maps each keypad digit to the bracket-class members it
// stands for, grounded on find-phone-words.cpp's PhoneFilter switch —
// the literal digit itself is always a member too, since the original
// accepts num[from] == ch for any digit byte.
var phoneLetters = map[byte]string{
	'0': "0", '1': "1",
	'2': "abc2", '3': "def3", '4': "ghi4", '5': "jkl5",
	'6': "mno6", '7': "pqrs7", '8': "tuv8", '9': "wxyz9",
}

// findPhoneWordsCommand expresses each digit as a bracket class of its
// keypad letters and lets pattern.Compile's per-atom implicit optional
// space do the job of PhoneFilter's "a space passes through silently at
// any position" transition, rather than hand-porting that state machine.
func findPhoneWordsCommand() *cli.Command {
	return &cli.Command{
		Name:      "find-phone-words",
		Usage:     "search an index for words spelled by a phone-keypad digit string",
		ArgsUsage: "in.index digits",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: nutrimatic find-phone-words in.index digits", 2)
			}
			digits := c.Args().Get(1)
			if digits == "" {
				return cli.Exit("find-phone-words: digits must not be empty", 2)
			}
			var expr strings.Builder
			for i := 0; i < len(digits); i++ {
				letters, ok := phoneLetters[digits[i]]
				if !ok {
					return cli.Exit(fmt.Sprintf("find-phone-words: digits must be 0-9, got %q", digits), 2)
				}
				expr.WriteString("[" + letters + "]")
			}

			r, err := index.Open(c.Args().Get(0))
			if err != nil {
				return cli.Exit(fmt.Sprintf("find-phone-words: %v", err), 1)
			}
			defer r.Close()

			d, err := pattern.Compile(expr.String())
			if err != nil {
				return cli.Exit(fmt.Sprintf("find-phone-words: %v", err), 1)
			}
			traceCompiled("find-phone-words pattern", d)
			dumpFSA(d)
			f := filter.New(d)

			cfg := loadConfig(c)
			drv := search.New(r, f, search.Options{Restart: cfg.Restart})
			if err := printLoop(drv, cfg); err != nil {
				return cli.Exit(fmt.Sprintf("find-phone-words: %v", err), 1)
			}
			return nil
		},
	}
}
