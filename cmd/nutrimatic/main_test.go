package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// runApp drives buildApp() in-process (no subprocess, no go toolchain
// invocation): it redirects os.Stdout (and os.Stdin, when stdin != "")
// for the duration of one Run call and returns everything written to
// stdout plus whatever error Run produced.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	prevStdout := os.Stdout
	os.Stdout = outW

	if stdin != "" {
		inR, inW, err := os.Pipe()
		if err != nil {
			t.Fatalf("Pipe: %v", err)
		}
		prevStdin := os.Stdin
		os.Stdin = inR
		go func() {
			io.WriteString(inW, stdin)
			inW.Close()
		}()
		defer func() { os.Stdin = prevStdin }()
	}

	runErr := buildApp().Run(append([]string{"nutrimatic"}, args...))

	outW.Close()
	os.Stdout = prevStdout
	var buf bytes.Buffer
	io.Copy(&buf, outR)
	return buf.String(), runErr
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	ec, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("error %v does not implement cli.ExitCoder", err)
	}
	return ec.ExitCode()
}

func TestBuildMergeDumpRoundTrip(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "shard")
	corpus := "BEGIN ARTICLE: test\nthe cat sat\n"

	if _, err := runApp(t, corpus, "build", prefix); err != nil {
		t.Fatalf("build: %v", err)
	}

	shardPath := prefix + ".00000.index"
	if _, err := os.Stat(shardPath); err != nil {
		t.Fatalf("expected shard at %s: %v", shardPath, err)
	}

	out := filepath.Join(dir, "merged.index")
	if _, err := runApp(t, "", "merge", "1", shardPath, out); err != nil {
		t.Fatalf("merge: %v", err)
	}

	dumpOut, err := runApp(t, "", "dump", out)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(dumpOut, "[cat ") && !strings.Contains(dumpOut, "[cat") {
		t.Fatalf("dump output missing expected n-gram, got: %q", dumpOut)
	}
}

func TestBuildRejectsWrongArgCount(t *testing.T) {
	_, err := runApp(t, "", "build")
	if exitCode(t, err) != 2 {
		t.Fatalf("expected exit 2, got err=%v", err)
	}
}

func TestMergeRejectsBadCutoff(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t, "", "merge", "0", filepath.Join(dir, "a.index"), filepath.Join(dir, "out.index"))
	if exitCode(t, err) != 2 {
		t.Fatalf("expected exit 2 for non-positive cutoff, got err=%v", err)
	}
}

func TestDumpReportsIOErrorOnMissingFile(t *testing.T) {
	_, err := runApp(t, "", "dump", "/nonexistent/path.index")
	if exitCode(t, err) != 1 {
		t.Fatalf("expected exit 1 for missing file, got err=%v", err)
	}
}

func TestExploreUsageErrorOnMissingArgs(t *testing.T) {
	_, err := runApp(t, "", "explore", "onlyonearg")
	if exitCode(t, err) != 2 {
		t.Fatalf("expected exit 2, got err=%v", err)
	}
}

func TestExploreWalksFromRoot(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "shard")
	if _, err := runApp(t, "cats are great\n", "build", prefix); err != nil {
		t.Fatalf("build: %v", err)
	}
	out := filepath.Join(dir, "merged.index")
	if _, err := runApp(t, "", "merge", "1", prefix+".00000.index", out); err != nil {
		t.Fatalf("merge: %v", err)
	}

	exploreOut, err := runApp(t, "", "explore", out, "c")
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if !strings.HasPrefix(exploreOut, "Root (") {
		t.Fatalf("expected explore output to start with Root header, got: %q", exploreOut)
	}
}

// A trailing '.' is what turns a line's last word into a standalone
// "word " n-gram: the tokenizer collapses the period into one space
// with nothing after it, so the end-of-line cascade's final, shortest
// suffix is exactly that one word plus its boundary space. Without it,
// a line's last word is flushed with no trailing space at all, and
// every other word only ever appears as a prefix of a longer n-gram.
func TestFindExprScenario(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "shard")
	if _, err := runApp(t, "the.\nthen.\n", "build", prefix); err != nil {
		t.Fatalf("build: %v", err)
	}
	out := filepath.Join(dir, "merged.index")
	if _, err := runApp(t, "", "merge", "1", prefix+".00000.index", out); err != nil {
		t.Fatalf("merge: %v", err)
	}

	findOut, err := runApp(t, "", "find-expr", out, "the")
	if err != nil {
		t.Fatalf("find-expr: %v", err)
	}
	if !strings.Contains(findOut, "the") {
		t.Fatalf("expected a result containing \"the\", got: %q", findOut)
	}
	if strings.Contains(findOut, "then") {
		t.Fatalf("\"the\" must not match \"then\", got: %q", findOut)
	}
}

func TestFindExprBadSyntaxExitsTwo(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "shard")
	if _, err := runApp(t, "hi.\n", "build", prefix); err != nil {
		t.Fatalf("build: %v", err)
	}
	out := filepath.Join(dir, "merged.index")
	if _, err := runApp(t, "", "merge", "1", prefix+".00000.index", out); err != nil {
		t.Fatalf("merge: %v", err)
	}

	_, err := runApp(t, "", "find-expr", out, "[")
	if exitCode(t, err) != 2 {
		t.Fatalf("expected exit 2 for a syntax error, got err=%v", err)
	}
}

func TestFindAnagramsRejectsNonLowercase(t *testing.T) {
	dir := t.TempDir()
	idx := filepath.Join(dir, "missing.index")
	_, err := runApp(t, "", "find-anagrams", idx, "AET")
	if exitCode(t, err) != 2 {
		t.Fatalf("expected exit 2 for uppercase letters, got err=%v", err)
	}
}

func TestFindAnagramsScenario(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "shard")
	corpus := "eat.\neat.\neat.\nate.\nate.\ntea.\n"
	if _, err := runApp(t, corpus, "build", prefix); err != nil {
		t.Fatalf("build: %v", err)
	}
	out := filepath.Join(dir, "merged.index")
	if _, err := runApp(t, "", "merge", "1", prefix+".00000.index", out); err != nil {
		t.Fatalf("merge: %v", err)
	}

	anagramOut, err := runApp(t, "", "find-anagrams", out, "aet")
	if err != nil {
		t.Fatalf("find-anagrams: %v", err)
	}
	for _, word := range []string{"eat", "ate", "tea"} {
		if !strings.Contains(anagramOut, word) {
			t.Fatalf("expected anagram result to contain %q, got: %q", word, anagramOut)
		}
	}
	if strings.Index(anagramOut, "eat") > strings.Index(anagramOut, "ate") {
		t.Fatalf("expected eat (count 3) before ate (count 2), got: %q", anagramOut)
	}
}

func TestFindPhoneWordsRejectsBadDigit(t *testing.T) {
	dir := t.TempDir()
	idx := filepath.Join(dir, "missing.index")
	_, err := runApp(t, "", "find-phone-words", idx, "22x")
	if exitCode(t, err) != 2 {
		t.Fatalf("expected exit 2 for a non-digit, got err=%v", err)
	}
}

func TestFindPhoneWordsScenario(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "shard")
	corpus := "cap.\ncap.\ncap.\nbar.\nbar.\n"
	if _, err := runApp(t, corpus, "build", prefix); err != nil {
		t.Fatalf("build: %v", err)
	}
	out := filepath.Join(dir, "merged.index")
	if _, err := runApp(t, "", "merge", "1", prefix+".00000.index", out); err != nil {
		t.Fatalf("merge: %v", err)
	}

	phoneOut, err := runApp(t, "", "find-phone-words", out, "227")
	if err != nil {
		t.Fatalf("find-phone-words: %v", err)
	}
	if !strings.Contains(phoneOut, "cap") || !strings.Contains(phoneOut, "bar") {
		t.Fatalf("expected both cap and bar to match 227, got: %q", phoneOut)
	}
	if strings.Index(phoneOut, "cap") > strings.Index(phoneOut, "bar") {
		t.Fatalf("expected cap (higher count) before bar, got: %q", phoneOut)
	}
}
