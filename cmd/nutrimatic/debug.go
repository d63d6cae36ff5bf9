package main

import (
	"log"
	"os"

	"github.com/nutrimatic-go/nutrimatic/fsa"
)

// traceEnabled reports whether NUTRIMATIC_TRACE asks for verbose
// compiler diagnostics on stderr (§9's DEBUG_FST split, decision 2).
func traceEnabled() bool {
	return os.Getenv("NUTRIMATIC_TRACE") != ""
}

// traceCompiled logs d's state/transition counts when tracing is on.
func traceCompiled(label string, d *fsa.DFA) {
	if !traceEnabled() {
		return
	}
	st := fsa.StatsOf(d)
	log.Printf("nutrimatic: %s compiled to %d states, %d transitions", label, st.States, st.Transitions)
}

// dumpFSA writes a Graphviz dump of d to the path named by
// NUTRIMATIC_DUMP_FSA, if set. A write failure is logged, not fatal —
// dumping the automaton is a debug aid, never load-bearing for a search.
func dumpFSA(d *fsa.DFA) {
	path := os.Getenv("NUTRIMATIC_DUMP_FSA")
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Printf("nutrimatic: NUTRIMATIC_DUMP_FSA: %v", err)
		return
	}
	defer f.Close()
	fsa.Graphviz(f, d)
}
