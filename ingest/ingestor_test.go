package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nutrimatic-go/nutrimatic/index"
)

func readShard(t *testing.T, path string) map[string]int64 {
	t.Helper()
	r, err := index.Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	defer r.Close()

	w, err := index.NewWalker(r, r.Root(), r.Total())
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}
	out := make(map[string]int64)
	for w.Text != nil {
		out[string(w.Text)] = w.Count
		if err := w.Next(); err != nil {
			t.Fatal(err)
		}
	}
	return out
}

func TestIngestorSkipsBoundaryMarkers(t *testing.T) {
	dir := t.TempDir()
	g := NewIngestor(filepath.Join(dir, "shard"), 1<<20)

	input := "BEGIN ARTICLE: Cats\nEND ARTICLE: Cats\n"
	if err := g.Ingest(strings.NewReader(input)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	paths, err := g.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("got %d shards, want 1", len(paths))
	}

	got := readShard(t, paths[0])
	if _, ok := got["end "]; ok {
		t.Fatalf("boundary marker line leaked an n-gram: %v", got)
	}
	if _, ok := got["cats"]; !ok {
		t.Fatalf("expected title word \"cats\" among n-grams, got %v", got)
	}
}

func TestIngestorWeightsTitlesByTenX(t *testing.T) {
	dir := t.TempDir()
	g := NewIngestor(filepath.Join(dir, "shard"), 1<<20)

	input := "BEGIN ARTICLE: zephyr\nthe word zephyr appears here\n"
	if err := g.Ingest(strings.NewReader(input)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	paths, err := g.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readShard(t, paths[0])
	titleCount := got["zephyr"]
	if titleCount != 10 {
		t.Fatalf("count for \"zephyr\" = %d, want 10 (title line tokenizes at 10x weight)", titleCount)
	}
}

func TestIngestorDocTagMarksFollowingLineAsTitle(t *testing.T) {
	dir := t.TempDir()
	g := NewIngestor(filepath.Join(dir, "shard"), 1<<20)

	input := "<doc id=\"1\">\nQuokka\n</doc>\n"
	if err := g.Ingest(strings.NewReader(input)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	paths, err := g.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readShard(t, paths[0])
	if got["quokka"] != 10 {
		t.Fatalf("count for \"quokka\" = %d, want 10 (title weighting)", got["quokka"])
	}
}

func TestIngestorSpillsMultipleShardsAcrossBudget(t *testing.T) {
	dir := t.TempDir()
	g := NewIngestor(filepath.Join(dir, "shard"), 16) // tiny budget forces several spills

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("a distinct line of body text number ")
		sb.WriteString(strings.Repeat("x", i%5+1))
		sb.WriteString("\n")
	}
	if err := g.Ingest(strings.NewReader(sb.String())); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	paths, err := g.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(paths) < 2 {
		t.Fatalf("got %d shards with a tiny budget, want several", len(paths))
	}
	for _, p := range paths {
		_ = readShard(t, p) // must parse as a valid trie
	}
}
