// Package markup extracts an HTML fragment from free-form language model output.
//
// Model replies mix fenced code, prose and markup. The extractor runs a fixed
// pipeline of line heuristics over the text and returns whatever survives as
// the best-effort markup. It never fails: text without any markup comes back
// trimmed, minus fence markers.
//
//	code := markup.Clean(reply)
//
// The result is not guaranteed to be idempotent; a second pass may remove
// short indented lines that the first pass kept.
package markup

import (
	"time"
)

// Clean extracts the markup from raw model text using the default pipeline.
func Clean(raw string) string {
	return defaultCleaner.Extract(raw)
}

var defaultCleaner = New()

// Cleaner runs the extraction pipeline. It implements cleaner.Cleaner and is
// safe for concurrent use.
type Cleaner struct {
	openers  []string
	rules    *RuleSet
	pipeline Pipeline
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithRules replaces the line policy used by the prose filter.
func WithRules(rules *RuleSet) Option {
	return func(c *Cleaner) {
		if rules != nil {
			c.rules = rules
		}
	}
}

// WithTagOpeners replaces the tag prefixes that mark the start of the markup block.
func WithTagOpeners(openers ...string) Option {
	return func(c *Cleaner) {
		if len(openers) > 0 {
			c.openers = openers
		}
	}
}

// New creates a Cleaner. Without options it uses DefaultTagOpeners and DefaultRules.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{
		openers: DefaultTagOpeners,
		rules:   DefaultRules(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pipeline = newPipeline(c.openers, c.rules, nil)
	return c
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "markup"
}

// Extract returns the extracted markup.
func (c *Cleaner) Extract(raw string) string {
	return c.pipeline.Run(raw)
}

// Clean implements cleaner.Cleaner. The error is always nil.
func (c *Cleaner) Clean(raw string) (string, error) {
	return c.pipeline.Run(raw), nil
}

// CleanWithStats extracts the markup and reports what each stage did.
func (c *Cleaner) CleanWithStats(raw string) *Result {
	start := time.Now()
	stats := NewStats()
	stats.InputBytes = len(raw)

	p := newPipeline(c.openers, c.rules, stats.RecordDrop)
	out := p.RunWithStats(raw, stats)

	stats.OutputBytes = len(out)
	stats.TotalDuration = time.Since(start)
	return &Result{Content: out, Stats: stats}
}

// Pipeline returns the stages this cleaner runs.
func (c *Cleaner) Pipeline() Pipeline {
	return c.pipeline
}
