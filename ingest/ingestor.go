package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/coregx/ahocorasick"
	"golang.org/x/sync/errgroup"

	"github.com/nutrimatic-go/nutrimatic/index"
	"github.com/nutrimatic-go/nutrimatic/shard"
)

// maxLineLength bounds a single input line; a longer one is reported as
// an error rather than silently truncated.
const maxLineLength = 65536

// markerPrefixes are the structural lines §6's corpus format uses to
// delimit an article and its title, as opposed to ordinary body text.
var markerPrefixes = []string{
	"BEGIN ARTICLE:",
	"<doc ",
	"END ARTICLE:",
	"</doc>",
}

// markerMatcher is a single multi-pattern automaton over markerPrefixes.
// Checking all four candidate prefixes against every line with four
// separate bytes.HasPrefix calls is correct but wasteful when, as is
// true of nearly every line in a real corpus, none of them apply;
// Match scans for all four in one pass and lets the overwhelming
// common case — no marker anywhere in the line — skip straight past
// the precise, position-anchored checks below.
var markerMatcher = ahocorasick.NewStringMatcher(markerPrefixes)

type lineKind int

const (
	lineBody lineKind = iota
	lineArticleBegin
	lineDocBegin
	lineBoundary
)

// classify reports what kind of structural line line is and, for
// lineArticleBegin, the title text following the marker.
func classify(line []byte) (lineKind, []byte) {
	if len(markerMatcher.Match(line)) == 0 {
		return lineBody, line
	}
	switch {
	case bytes.HasPrefix(line, []byte("BEGIN ARTICLE:")):
		return lineArticleBegin, line[len("BEGIN ARTICLE:"):]
	case bytes.HasPrefix(line, []byte("<doc ")):
		return lineDocBegin, nil
	case bytes.HasPrefix(line, []byte("END ARTICLE:")), bytes.HasPrefix(line, []byte("</doc>")):
		return lineBoundary, nil
	default:
		return lineBody, line
	}
}

// Ingestor reads a stream of article text and spills it as a sequence
// of sorted, counted shard tries (§2, §6). It buffers n-grams in an
// in-memory map until their accumulated key bytes clear budget, then
// hands the buffer to a background worker that sorts and writes it as
// one shard while ingestion keeps accumulating the next — so a slow
// disk never stalls tokenization.
type Ingestor struct {
	prefix string
	budget int

	counts map[string]int64
	bytes  int

	spills errgroup.Group
	mu     sync.Mutex
	paths  []string
}

// NewIngestor returns an Ingestor that spills shards named
// "<prefix>.NNNNN.index" once the buffered n-gram keys total at least
// budget bytes.
func NewIngestor(prefix string, budget int) *Ingestor {
	return &Ingestor{prefix: prefix, budget: budget, counts: make(map[string]int64)}
}

// Ingest reads newline-delimited text from r and tokenizes it,
// classifying BEGIN ARTICLE:/<doc .../END ARTICLE:/</doc> lines the
// way §6 describes: a title (the remainder of a BEGIN ARTICLE: line,
// or the line immediately following a <doc> line) is tokenized at
// titleMultiplier weight; the boundary markers themselves contribute
// no n-grams at all; every other line is ordinary body text.
func (g *Ingestor) Ingest(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	pendingTitle := false
	for sc.Scan() {
		line := sc.Bytes()
		kind, rest := classify(line)

		switch {
		case pendingTitle:
			g.tokenize(line, titleMultiplier)
			pendingTitle = false
		case kind == lineArticleBegin:
			g.tokenize(rest, titleMultiplier)
		case kind == lineDocBegin:
			pendingTitle = true
		case kind == lineBoundary:
			// contributes nothing
		default:
			g.tokenize(rest, 1)
		}

		if g.bytes >= g.budget {
			if err := g.spill(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("ingest: scan: %w", err)
	}
	return nil
}

func (g *Ingestor) tokenize(text []byte, weight int64) {
	tok := NewTokenizer(func(ngram []byte) {
		g.add(ngram, weight)
	})
	tok.Line(text)
}

func (g *Ingestor) add(ngram []byte, weight int64) {
	key := string(ngram)
	if _, ok := g.counts[key]; !ok {
		g.bytes += len(key)
	}
	g.counts[key] += weight
}

// spill claims the next shard path synchronously (so a second spill
// started before the first finishes writing can never collide with
// it), resets the in-memory buffer, and hands the sort-and-write work
// off to a background goroutine tracked by the Ingestor's errgroup.
func (g *Ingestor) spill() error {
	if len(g.counts) == 0 {
		return nil
	}
	path, err := shard.NextPath(g.prefix)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("ingest: create %s: %w", path, err)
	}

	counts := g.counts
	g.counts = make(map[string]int64)
	g.bytes = 0

	g.mu.Lock()
	g.paths = append(g.paths, path)
	g.mu.Unlock()

	g.spills.Go(func() error {
		defer f.Close()
		return writeShard(f, counts)
	})
	return nil
}

func writeShard(f *os.File, counts map[string]int64) error {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := index.NewWriter(f)
	for _, k := range keys {
		if err := w.Add([]byte(k), counts[k]); err != nil {
			return fmt.Errorf("ingest: write %s: %w", f.Name(), err)
		}
	}
	if _, err := w.Close(); err != nil {
		return fmt.Errorf("ingest: close %s: %w", f.Name(), err)
	}
	return f.Sync()
}

// Close spills any remaining buffered n-grams as a final shard, waits
// for every outstanding background spill to finish, and returns the
// full set of shard paths written, in the order each spill started.
func (g *Ingestor) Close() ([]string, error) {
	if err := g.spill(); err != nil {
		return nil, err
	}
	if err := g.spills.Wait(); err != nil {
		return nil, err
	}
	return g.paths, nil
}
