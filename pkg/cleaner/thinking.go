package cleaner

import (
	"regexp"
	"strings"
)

// reasoningBlockPattern matches complete reasoning blocks emitted by thinking models.
var reasoningBlockPattern = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// openReasoningPattern matches a reasoning block cut off before its closing tag.
var openReasoningPattern = regexp.MustCompile(`(?is)(?:<think>|<thinking>|<reasoning>|<reflection>).*$`)

// DefaultSentinels are end-of-turn tokens some models leak into their text.
// "</s>" is left out because it is also a valid HTML close tag.
var DefaultSentinels = []string{
	"<|im_end|>",
	"<|endoftext|>",
	"<|end_of_text|>",
	"<|eot_id|>",
}

// ThinkingCleaner removes reasoning blocks and sentinel tokens.
// An unterminated reasoning block drops everything after its opening tag.
type ThinkingCleaner struct {
	sentinels []string
}

// NewThinking creates a cleaner that strips DefaultSentinels. Extra sentinels
// are appended to the defaults.
func NewThinking(extra ...string) *ThinkingCleaner {
	s := make([]string, 0, len(DefaultSentinels)+len(extra))
	s = append(s, DefaultSentinels...)
	s = append(s, extra...)
	return &ThinkingCleaner{sentinels: s}
}

// Clean removes reasoning blocks, then sentinel tokens, and trims the result.
func (c *ThinkingCleaner) Clean(text string) (string, error) {
	return StripReasoning(text, c.sentinels...), nil
}

// Name returns the cleaner type.
func (c *ThinkingCleaner) Name() string {
	return "thinking"
}

// StripReasoning removes reasoning blocks and the given sentinel tokens from text.
func StripReasoning(text string, sentinels ...string) string {
	s := reasoningBlockPattern.ReplaceAllString(text, "")
	s = openReasoningPattern.ReplaceAllString(s, "")
	for _, tok := range sentinels {
		s = strings.ReplaceAll(s, tok, "")
	}
	return strings.TrimSpace(s)
}
