package markup

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Class is the classification of a single line of model output.
type Class int

const (
	// ClassIndeterminate lines match no rule and are kept as probable markup content.
	ClassIndeterminate Class = iota
	// ClassBlank lines are empty or whitespace only.
	ClassBlank
	// ClassStructural lines open or close a tag, or hold a complete comment.
	ClassStructural
	// ClassContent lines continue a tag or carry wrapped inline content.
	ClassContent
	// ClassProse lines are explanatory text and are dropped.
	ClassProse
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassBlank:
		return "blank"
	case ClassStructural:
		return "structural"
	case ClassContent:
		return "content"
	case ClassProse:
		return "prose"
	default:
		return "indeterminate"
	}
}

// Keep reports whether lines of this class survive the prose filter.
func (c Class) Keep() bool {
	return c != ClassProse
}

// Rule is a named line pattern with the intent it encodes.
type Rule struct {
	Name    string
	Intent  string
	Class   Class
	Pattern *regexp.Regexp
}

// KeywordRule drops long, tag-free lines that talk about markup rather than contain it.
type KeywordRule struct {
	Keywords  []string
	MinLength int // lines must be strictly longer than this
}

// Match reports whether line is keyword prose.
func (k KeywordRule) Match(line string) bool {
	if len(k.Keywords) == 0 || utf8.RuneCountInString(line) <= k.MinLength {
		return false
	}
	if tagPattern.MatchString(line) {
		return false
	}
	lower := strings.ToLower(line)
	for _, kw := range k.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RuleSet is the full line policy used by the prose filter.
// Keep rules are evaluated first, then prose rules in order, then the keyword rule.
type RuleSet struct {
	Keep    []Rule
	Prose   []Rule
	Keyword KeywordRule
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// keyword rule name as recorded in Stats.
const keywordRuleName = "keyword-prose"

// DefaultRules returns a fresh copy of the default line policy.
func DefaultRules() *RuleSet {
	rs := &RuleSet{
		Keep:  append([]Rule(nil), keepRules...),
		Prose: append([]Rule(nil), proseRules...),
		Keyword: KeywordRule{
			Keywords:  append([]string(nil), proseKeywords...),
			MinLength: 30,
		},
	}
	return rs
}

// Classify assigns a class to a line and names the rule that decided it.
// Lines matching nothing are ClassIndeterminate with an empty rule name.
func (rs *RuleSet) Classify(line string) (Class, string) {
	for _, r := range rs.Keep {
		if r.Pattern.MatchString(line) {
			return r.Class, r.Name
		}
	}
	trimmed := strings.TrimSpace(line)
	for _, r := range rs.Prose {
		if r.Pattern.MatchString(trimmed) {
			return ClassProse, r.Name
		}
	}
	if rs.Keyword.Match(line) {
		return ClassProse, keywordRuleName
	}
	return ClassIndeterminate, ""
}

// Classify classifies a line using the default rules.
func Classify(line string) (Class, string) {
	return defaultRules.Classify(line)
}

var defaultRules = DefaultRules()

var keepRules = []Rule{
	{
		Name:    "blank",
		Intent:  "preserve formatting between blocks",
		Class:   ClassBlank,
		Pattern: regexp.MustCompile(`^\s*$`),
	},
	{
		Name:    "comment",
		Intent:  "complete HTML comment on one line",
		Class:   ClassStructural,
		Pattern: regexp.MustCompile(`^\s*<!--.*-->\s*$`),
	},
	{
		Name:    "tag-start",
		Intent:  "line opens or closes a tag",
		Class:   ClassStructural,
		Pattern: regexp.MustCompile(`^\s*</?`),
	},
	{
		Name:    "tag-then-content",
		Intent:  "tail of a tag split over lines, followed by its content",
		Class:   ClassContent,
		Pattern: regexp.MustCompile(`^[^<]*>.*$`),
	},
	{
		Name:    "indented-symbol",
		Intent:  "indented continuation starting with punctuation (wrapped inline content)",
		Class:   ClassContent,
		Pattern: regexp.MustCompile(`^\s+[^\w\s<]`),
	},
}

// proseRules are matched against the trimmed line, in order.
var proseRules = []Rule{
	{Name: "this-code", Intent: "sentence describing the generated code", Pattern: regexp.MustCompile(`(?i)^this (code|component|snippet|example|form|layout|design|markup|html|template|page|section|card)\b`)},
	{Name: "here-is", Intent: "presentation opener", Pattern: regexp.MustCompile(`(?i)^here('s| is| are)\b`)},
	{Name: "ive-created", Intent: "first-person build narration", Pattern: regexp.MustCompile(`(?i)^i('ve| have)? ?(created|built|made|designed|added|used|included|styled|implemented)\b`)},
	{Name: "note", Intent: "note or tip callout", Pattern: regexp.MustCompile(`(?i)^(note|tip|important)\s*:`)},
	{Name: "bullet", Intent: "markdown list bullet", Pattern: regexp.MustCompile(`^[-*•+]\s+`)},
	{Name: "numbered", Intent: "numbered list marker", Pattern: regexp.MustCompile(`^\d+[.)]\s+`)},
	{Name: "heading", Intent: "markdown heading", Pattern: regexp.MustCompile(`^#{1,6}\s+`)},
	{Name: "bold-label", Intent: "markdown bold label line", Pattern: regexp.MustCompile(`^\*\*[^*]+\*\*:?`)},
	{Name: "explanation-label", Intent: "section label left in the text", Pattern: regexp.MustCompile(`(?i)^(explanation|code|html|output|result)\s*:\s*$`)},
	{Name: "above-following", Intent: "reference to surrounding text", Pattern: regexp.MustCompile(`(?i)^(the|this) (above|following|below)\b`)},
	{Name: "key-features", Intent: "feature summary header", Pattern: regexp.MustCompile(`(?i)^(key )?features( include)?\s*:?`)},
	{Name: "you-can", Intent: "usage suggestion", Pattern: regexp.MustCompile(`(?i)^(you can|you may|feel free)\b`)},
	{Name: "let-me", Intent: "conversational opener", Pattern: regexp.MustCompile(`(?i)^(let me|let's|let us)\b`)},
	{Name: "sure", Intent: "assent opener", Pattern: regexp.MustCompile(`(?i)^(sure|certainly|of course|absolutely)[,!.]`)},
	{Name: "in-this", Intent: "framing sentence", Pattern: regexp.MustCompile(`(?i)^(in this|with this|for this)\b`)},
	{Name: "it-uses", Intent: "description of what the markup does", Pattern: regexp.MustCompile(`(?i)^(it|this|they) (uses|includes|features|provides|has|contains|creates|ensures)\b`)},
	{Name: "the-element-is", Intent: "description of a named element", Pattern: regexp.MustCompile(`(?i)^(the|a|an) (form|layout|component|design|page|card|button|header|footer|navbar|navigation|section|container) (is|has|uses|includes|contains|will)\b`)},
	{Name: "to-use", Intent: "usage instructions", Pattern: regexp.MustCompile(`(?i)^(to use\b|usage\s*:|to customi[sz]e\b)`)},
	{Name: "customize", Intent: "customisation advice", Pattern: regexp.MustCompile(`(?i)^(customi[sz]e|modify) (the|this|it)\b`)},
	{Name: "sign-off", Intent: "closing pleasantry", Pattern: regexp.MustCompile(`(?i)^(hope this|i hope|enjoy|happy coding|let me know)\b`)},
	{Name: "semantic-html", Intent: "domain phrase: semantic html", Pattern: regexp.MustCompile(`(?i)semantic html`)},
	{Name: "tailwind-css", Intent: "domain phrase: tailwind css", Pattern: regexp.MustCompile(`(?i)tailwind css`)},
	{Name: "hover-states", Intent: "domain phrase: hover states", Pattern: regexp.MustCompile(`(?i)hover (states?|effects?)`)},
	{Name: "responsive-design", Intent: "domain phrase: responsive design", Pattern: regexp.MustCompile(`(?i)responsive (design|layout)`)},
	{Name: "accessibility", Intent: "domain phrase: accessibility practices", Pattern: regexp.MustCompile(`(?i)accessib(le|ility) (features?|considerations?|best practices|attributes)`)},
	{Name: "mobile-friendly", Intent: "domain phrase: mobile support", Pattern: regexp.MustCompile(`(?i)mobile[- ](friendly|first|devices?)`)},
}

var proseKeywords = []string{
	"html", "css", "tailwind", "responsive", "semantic", "accessibility",
	"hover", "mobile", "component", "design", "styling", "form", "button", "input",
}
