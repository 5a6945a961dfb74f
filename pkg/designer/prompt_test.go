package designer

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		wantExplanation string
		wantCode        string
	}{
		{
			name:            "both_markers",
			raw:             "EXPLANATION:\nA hero section.\n\nCODE:\n<section>hi</section>",
			wantExplanation: "A hero section.",
			wantCode:        "<section>hi</section>",
		},
		{
			name:            "code_marker_only",
			raw:             "Here you go.\nCODE: <div></div>",
			wantExplanation: "Here you go.",
			wantCode:        "<div></div>",
		},
		{
			name:            "no_markers",
			raw:             "  <nav></nav>  ",
			wantExplanation: "",
			wantCode:        "<nav></nav>",
		},
		{
			name:            "preamble_before_explanation",
			raw:             "Sure!\nEXPLANATION: A form.\nCODE: <form></form>",
			wantExplanation: "A form.",
			wantCode:        "<form></form>",
		},
		{
			name:            "second_code_marker_stays_in_code",
			raw:             "EXPLANATION: x\nCODE: <pre>CODE: y</pre>",
			wantExplanation: "x",
			wantCode:        "<pre>CODE: y</pre>",
		},
		{
			name:            "lowercase_markers_are_not_markers",
			raw:             "code: <div></div>",
			wantExplanation: "",
			wantCode:        "code: <div></div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explanation, code := Split(tt.raw)
			if explanation != tt.wantExplanation {
				t.Errorf("explanation = %q, want %q", explanation, tt.wantExplanation)
			}
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestBuildMessages_NoSystem(t *testing.T) {
	msgs := BuildMessages("", nil, "a footer")
	if len(msgs) != 1 || msgs[0].Content != "a footer" {
		t.Errorf("BuildMessages() = %+v", msgs)
	}
}

func TestSystemPrompt_Markers(t *testing.T) {
	for _, m := range []string{ExplanationMarker, CodeMarker, "Tailwind"} {
		if !strings.Contains(SystemPrompt, m) {
			t.Errorf("SystemPrompt missing %q", m)
		}
	}
}
