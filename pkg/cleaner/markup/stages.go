package markup

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Stage is one text-to-text step of the extraction pipeline.
type Stage struct {
	Name string

	// RequiresMarkup skips the stage when the text holds no angle bracket.
	RequiresMarkup bool

	Apply func(string) string
}

// Pipeline is an ordered sequence of stages. Each stage sees the previous stage's output.
type Pipeline []Stage

// Run applies every stage in order.
func (p Pipeline) Run(text string) string {
	return p.run(text, nil)
}

// RunWithStats applies every stage in order and records per-stage sizes into st.
func (p Pipeline) RunWithStats(text string, st *Stats) string {
	return p.run(text, st)
}

func (p Pipeline) run(text string, st *Stats) string {
	for _, stage := range p {
		if stage.RequiresMarkup && !HasMarkup(text) {
			if st != nil {
				st.recordSkip(stage.Name, text)
			}
			continue
		}
		start := time.Now()
		out := stage.Apply(text)
		if st != nil {
			st.recordStage(stage.Name, text, out, time.Since(start))
		}
		text = out
	}
	return text
}

// Names returns the stage names in order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name
	}
	return names
}

// DefaultTagOpeners are the tag prefixes that mark the start of the markup block.
var DefaultTagOpeners = []string{
	"<!DOCTYPE", "<html", "<div", "<section", "<main", "<article",
	"<header", "<nav", "<form", "<body", "<head",
}

// DefaultPipeline returns the standard six-stage extraction pipeline.
func DefaultPipeline() Pipeline {
	return newPipeline(DefaultTagOpeners, DefaultRules(), nil)
}

func newPipeline(openers []string, rules *RuleSet, onDrop func(rule string)) Pipeline {
	return Pipeline{
		{Name: "fences", Apply: StripFences},
		{Name: "leading", Apply: func(s string) string { return trimToFirstTag(s, openers) }},
		{Name: "trailing", Apply: TrimAfterLastClose},
		{Name: "prose", RequiresMarkup: true, Apply: func(s string) string { return filterProse(s, rules, onDrop) }},
		{Name: "tail", Apply: TrimAfterLastTagLine},
		{Name: "trim", Apply: strings.TrimSpace},
	}
}

// HasMarkup reports whether s contains any angle bracket.
func HasMarkup(s string) bool {
	return strings.ContainsAny(s, "<>")
}

var fencePattern = regexp.MustCompile("```(?:html)?[ \t]*\r?\n?")

// StripFences removes every fence marker, opening or closing, without pairing them.
func StripFences(text string) string {
	return fencePattern.ReplaceAllString(text, "")
}

// TrimToFirstTag drops every line before the first line that opens a known block tag.
// Text without such a line is returned unchanged.
func TrimToFirstTag(text string) string {
	return trimToFirstTag(text, DefaultTagOpeners)
}

func trimToFirstTag(text string, openers []string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "<") {
			continue
		}
		for _, opener := range openers {
			if strings.Contains(line, opener) {
				return strings.Join(lines[i:], "\n")
			}
		}
	}
	return text
}

// lastClosePattern finds the last '>' not followed by a letter-terminated tag close.
var lastClosePattern = func() *regexp2.Regexp {
	re := regexp2.MustCompile(`^[\s\S]*>(?![\s\S]*[a-zA-Z]>)`, regexp2.None)
	re.MatchTimeout = 250 * time.Millisecond
	return re
}()

// TrimAfterLastClose truncates text right after its last plausible tag-close boundary.
// Text without a '>' is returned unchanged.
func TrimAfterLastClose(text string) string {
	if !strings.Contains(text, ">") {
		return text
	}
	m, err := lastClosePattern.FindStringMatch(text)
	if err != nil {
		// match timeout on very large input
		return text[:strings.LastIndex(text, ">")+1]
	}
	if m == nil {
		return text
	}
	return m.String()
}

// FilterProse drops explanatory lines using the default rules.
func FilterProse(text string) string {
	return filterProse(text, defaultRules, nil)
}

func filterProse(text string, rules *RuleSet, onDrop func(rule string)) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		class, rule := rules.Classify(line)
		if !class.Keep() {
			if onDrop != nil {
				onDrop(rule)
			}
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// TrimAfterLastTagLine drops trailing lines after the last line holding both '<' and '>'.
func TrimAfterLastTagLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "<") && strings.Contains(lines[i], ">") {
			return strings.Join(lines[:i+1], "\n")
		}
	}
	return text
}
