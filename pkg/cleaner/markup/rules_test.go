package markup

import (
	"regexp"
	"testing"
)

func mustCompile(t *testing.T, expr string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(expr)
	if err != nil {
		t.Fatalf("compile %q: %v", expr, err)
	}
	return re
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line      string
		wantClass Class
		wantRule  string
	}{
		{"", ClassBlank, "blank"},
		{"   \t", ClassBlank, "blank"},
		{"<!-- nav -->", ClassStructural, "comment"},
		{"  <div class=\"p-4\">", ClassStructural, "tag-start"},
		{"</div>", ClassStructural, "tag-start"},
		{"  class=\"a\">Text", ClassContent, "tag-then-content"},
		{"   &nbsp;", ClassContent, "indented-symbol"},
		{"    {{ name }}", ClassContent, "indented-symbol"},
		{"Here is the code:", ClassProse, "here-is"},
		{"Note: works offline", ClassProse, "note"},
		{"1. First item", ClassProse, "numbered"},
		{"- bullet", ClassProse, "bullet"},
		{"I've created a responsive card.", ClassProse, "ive-created"},
		{"Uses semantic HTML throughout", ClassProse, "semantic-html"},
		{"This layout is built with flexbox and grid for every screen size", ClassProse, "this-code"},
		{"Everything adapts nicely to mobile screens and tablets too", ClassProse, "keyword-prose"},
		{"Welcome back", ClassIndeterminate, ""},
		{"Send form", ClassIndeterminate, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			class, rule := Classify(tt.line)
			if class != tt.wantClass {
				t.Errorf("Classify() class = %v, want %v", class, tt.wantClass)
			}
			if rule != tt.wantRule {
				t.Errorf("Classify() rule = %q, want %q", rule, tt.wantRule)
			}
		})
	}
}

// Each default prose rule must be the first rule to match its sample.
func TestDefaultRules_ProseSamples(t *testing.T) {
	samples := map[string]string{
		"this-code":         "This snippet renders a pricing table",
		"here-is":           "Here's the updated version",
		"ive-created":       "I built a simple hero banner",
		"note":              "Note: replace the placeholder image",
		"bullet":            "- Uses flexbox",
		"numbered":          "2) Add your logo",
		"heading":           "## Explanation",
		"bold-label":        "**Layout**: two columns",
		"explanation-label": "EXPLANATION:",
		"above-following":   "The above markup is self-contained",
		"key-features":      "Key features:",
		"you-can":           "You can drop this into any page",
		"let-me":            "Let me know if anything breaks",
		"sure":              "Sure, that works.",
		"in-this":           "In this version the sidebar collapses",
		"it-uses":           "It uses grid utilities",
		"the-element-is":    "The card has rounded corners",
		"to-use":            "To use it, paste it into body",
		"customize":         "Customize the colors to match your brand",
		"sign-off":          "Happy coding!",
		"semantic-html":     "Built on semantic HTML elements",
		"tailwind-css":      "Styled entirely with Tailwind CSS",
		"hover-states":      "Buttons get hover effects",
		"responsive-design": "Fully responsive design",
		"accessibility":     "Includes accessibility attributes",
		"mobile-friendly":   "Works on mobile devices",
	}

	rules := DefaultRules()
	if len(rules.Prose) != len(samples) {
		t.Errorf("len(Prose) = %d, samples cover %d", len(rules.Prose), len(samples))
	}

	for _, r := range rules.Prose {
		t.Run(r.Name, func(t *testing.T) {
			sample, ok := samples[r.Name]
			if !ok {
				t.Fatalf("no sample for rule %q", r.Name)
			}
			class, rule := rules.Classify(sample)
			if class != ClassProse || rule != r.Name {
				t.Errorf("Classify(%q) = %v/%q, want prose/%q", sample, class, rule, r.Name)
			}
		})
	}
}

func TestKeywordRule_Match(t *testing.T) {
	k := KeywordRule{Keywords: []string{"button"}, MinLength: 30}

	tests := []struct {
		name string
		line string
		want bool
	}{
		{"long_with_keyword", "The primary button stands out against the page", true},
		{"exactly_min_length", "button padded to thirty runes.", false},
		{"short", "button", false},
		{"contains_tag", "Wrap the button text in <span>a span</span> please", false},
		{"no_keyword", "Nothing in this sentence matches any listed word", false},
		{"case_insensitive", "THE BUTTON IS LARGER THAN IT USED TO BE HERE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.Match(tt.line); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestKeywordRule_Empty(t *testing.T) {
	var k KeywordRule
	if k.Match("a long line about html and css and tailwind and more") {
		t.Error("empty KeywordRule should never match")
	}
}

func TestDefaultRules_FreshCopy(t *testing.T) {
	a := DefaultRules()
	a.Prose[0].Name = "changed"
	a.Keyword.Keywords[0] = "changed"

	b := DefaultRules()
	if b.Prose[0].Name == "changed" || b.Keyword.Keywords[0] == "changed" {
		t.Error("DefaultRules() returned shared state")
	}
}

func TestClass_String(t *testing.T) {
	tests := []struct {
		c    Class
		want string
		keep bool
	}{
		{ClassIndeterminate, "indeterminate", true},
		{ClassBlank, "blank", true},
		{ClassStructural, "structural", true},
		{ClassContent, "content", true},
		{ClassProse, "prose", false},
	}

	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if got := tt.c.Keep(); got != tt.keep {
			t.Errorf("%s.Keep() = %v, want %v", tt.want, got, tt.keep)
		}
	}
}
