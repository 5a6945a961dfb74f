package markup

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// StageStats captures what a single stage did.
type StageStats struct {
	Name     string        `json:"name" yaml:"name"`
	Skipped  bool          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	LinesIn  int           `json:"lines_in" yaml:"lines_in"`
	LinesOut int           `json:"lines_out" yaml:"lines_out"`
	BytesIn  int           `json:"bytes_in" yaml:"bytes_in"`
	BytesOut int           `json:"bytes_out" yaml:"bytes_out"`
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// Stats captures metrics about one extraction run.
type Stats struct {
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	Stages []StageStats `json:"stages" yaml:"stages"`

	// RuleDrops counts lines removed by the prose filter, keyed by rule name.
	RuleDrops map[string]int `json:"rule_drops" yaml:"rule_drops"`

	TotalDuration time.Duration `json:"total_duration_ns" yaml:"total_duration_ns"`
}

// NewStats creates a Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		RuleDrops: make(map[string]int),
	}
}

func (s *Stats) recordStage(name, in, out string, d time.Duration) {
	s.Stages = append(s.Stages, StageStats{
		Name:     name,
		LinesIn:  lineCount(in),
		LinesOut: lineCount(out),
		BytesIn:  len(in),
		BytesOut: len(out),
		Duration: d,
	})
}

func (s *Stats) recordSkip(name, text string) {
	n := lineCount(text)
	s.Stages = append(s.Stages, StageStats{
		Name:     name,
		Skipped:  true,
		LinesIn:  n,
		LinesOut: n,
		BytesIn:  len(text),
		BytesOut: len(text),
	})
}

// RecordDrop records that a line was dropped by rule.
func (s *Stats) RecordDrop(rule string) {
	s.RuleDrops[rule]++
}

// Stage returns the stats for the named stage, or nil.
func (s *Stats) Stage(name string) *StageStats {
	for i := range s.Stages {
		if s.Stages[i].Name == name {
			return &s.Stages[i]
		}
	}
	return nil
}

// LinesDropped returns the total number of lines removed by the prose filter.
func (s *Stats) LinesDropped() int {
	total := 0
	for _, n := range s.RuleDrops {
		total += n
	}
	return total
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)), s.ReductionPercent()))

	for _, st := range s.Stages {
		if st.Skipped {
			sb.WriteString(fmt.Sprintf("  %-9s skipped (no markup)\n", st.Name))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-9s lines %d -> %d\n", st.Name, st.LinesIn, st.LinesOut))
	}

	if len(s.RuleDrops) > 0 {
		rules := make([]string, 0, len(s.RuleDrops))
		for r := range s.RuleDrops {
			rules = append(rules, r)
		}
		sort.Strings(rules)
		parts := make([]string, 0, len(rules))
		for _, r := range rules {
			parts = append(parts, fmt.Sprintf("%s=%d", r, s.RuleDrops[r]))
		}
		sb.WriteString("Dropped by rule: ")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Total: %v\n", s.TotalDuration.Round(time.Microsecond)))
	return sb.String()
}

// Result contains the output of an extraction run.
type Result struct {
	Content string `json:"content" yaml:"content"`
	Stats   *Stats `json:"stats" yaml:"stats"`
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
