package designer

import (
	"strings"

	"github.com/jmylchreest/uiforge/pkg/llm"
)

// Section markers the model is asked to emit.
const (
	ExplanationMarker = "EXPLANATION:"
	CodeMarker        = "CODE:"
)

// SystemPrompt is the default instruction sent ahead of every conversation.
const SystemPrompt = `You are a UI design assistant. You turn short descriptions of interface components into HTML styled with Tailwind CSS utility classes.

Always answer in exactly this format:

EXPLANATION:
One or two sentences describing the design.

CODE:
The complete HTML fragment.

Rules for the CODE section:
- Output only HTML with Tailwind classes. No markdown fences and no commentary.
- Do not include script tags or external stylesheets.
- Use semantic elements and add hover and focus states where they make sense.
- When asked to change an earlier design, return the full updated fragment.`

// BuildMessages assembles the chat messages for one request: the system prompt,
// the earlier turns in order, then the new prompt.
func BuildMessages(system string, history []Turn, prompt string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	}
	for _, t := range history {
		msgs = append(msgs, llm.Message{Role: llm.Role(t.Role), Content: t.Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: prompt})
}

// Split separates a raw answer into its explanation and code sections.
//
// Text after the first CODE: marker is the code; text before it, minus an
// optional EXPLANATION: marker, is the explanation. Without a CODE: marker the
// whole answer is treated as code and the explanation is empty.
func Split(raw string) (explanation, code string) {
	idx := strings.Index(raw, CodeMarker)
	if idx < 0 {
		return "", strings.TrimSpace(raw)
	}

	head := raw[:idx]
	if e := strings.Index(head, ExplanationMarker); e >= 0 {
		head = head[e+len(ExplanationMarker):]
	}
	return strings.TrimSpace(head), strings.TrimSpace(raw[idx+len(CodeMarker):])
}
