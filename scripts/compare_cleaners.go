// compare_cleaners.go - Compare output from different cleaner configurations
//
// Usage: go run scripts/compare_cleaners.go <answer-file>
//
// Example:
//   go run scripts/compare_cleaners.go pkg/cleaner/markup/testdata/contact_form.txt

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/uiforge/pkg/cleaner"
	"github.com/jmylchreest/uiforge/pkg/cleaner/markup"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/compare_cleaners.go <answer-file>")
		os.Exit(1)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}
	input := string(raw)

	outDir, err := os.MkdirTemp("", "compare-cleaners-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	cleaners := []cleaner.Cleaner{
		cleaner.NewNoop(),
		cleaner.NewThinking(),
		markup.New(),
		cleaner.NewChain(cleaner.NewThinking(), markup.New()),
	}

	fmt.Printf("Input: %s, %d lines\n\n", humanize.Bytes(uint64(len(input))), strings.Count(input, "\n")+1)
	fmt.Printf("%-28s %10s %8s %8s\n", "CLEANER", "SIZE", "LINES", "MARKUP")
	fmt.Println(strings.Repeat("-", 58))

	safe := strings.NewReplacer("(", "_", ")", "", ">", "", "-", "")
	for i, c := range cleaners {
		out, err := c.Clean(input)
		if err != nil {
			fmt.Printf("%-28s error: %v\n", c.Name(), err)
			continue
		}
		fmt.Printf("%-28s %10s %8d %8t\n", c.Name(), humanize.Bytes(uint64(len(out))), strings.Count(out, "\n")+1, markup.HasMarkup(out))

		path := filepath.Join(outDir, fmt.Sprintf("%d-%s.html", i, safe.Replace(c.Name())))
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
		}
	}

	fmt.Println()
	fmt.Println(markup.New().CleanWithStats(input).Stats)
	fmt.Printf("\nOutputs written to %s\n", outDir)
}
