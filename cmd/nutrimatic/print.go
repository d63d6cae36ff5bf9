package main

import (
	"fmt"
	"strings"

	nconfig "github.com/nutrimatic-go/nutrimatic/config"
	"github.com/nutrimatic-go/nutrimatic/filter"
	"github.com/nutrimatic-go/nutrimatic/search"
)

// printLoop drains drv, printing "<score> <text>\n" per result (§6),
// score at 8 significant digits and text with its mandatory trailing
// space trimmed. A "# <n>\n" marker is emitted every
// cfg.ProgressInterval popped queue entries, mirroring PrintAll
// (trunk/search-printer.cpp).
func printLoop(drv *search.Driver, cfg nconfig.Config) error {
	interval := int64(cfg.ProgressInterval)
	if interval <= 0 {
		interval = 100_000
	}
	nextMarker := interval
	for {
		text, score, ok, err := drv.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		for drv.Stats().Popped >= nextMarker {
			fmt.Printf("# %d\n", nextMarker)
			nextMarker += interval
		}
		fmt.Printf("%.8g %s\n", score, strings.TrimRight(text, " "))
	}
}

// filterFeasible reports whether f has any accepting state reachable
// from its start state. This generalizes find-expr.cpp's narrower
// "can the start state transition on a space" infeasibility probe into
// a plain reachability search, since filter.Filter exposes no concept
// of a single canonical word-boundary byte beyond Step itself.
func filterFeasible(f *filter.Filter) bool {
	visited := map[filter.State]bool{f.Start(): true}
	queue := []filter.State{f.Start()}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if f.IsAccepting(s) {
			return true
		}
		for b := 1; b < 256; b++ {
			next, ok := f.Step(s, byte(b))
			if ok && !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
