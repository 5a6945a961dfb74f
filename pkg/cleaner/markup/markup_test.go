package markup

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func readTestdata(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to read testdata %s: %v", filename, err)
	}
	return string(data)
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "prose_around_div",
			input: "Here is a form:\n<div>x</div>\nThis includes responsive design.",
			want:  "<div>x</div>",
		},
		{
			name:  "trailing_note_after_block",
			input: "<div class=\"a\">\n  <p>Hello</p>\n</div>\nNote: this uses semantic html.",
			want:  "<div class=\"a\">\n  <p>Hello</p>\n</div>",
		},
		{
			name:  "no_markup_is_trimmed",
			input: "  Here is some plain text.\nNothing else.  ",
			want:  "Here is some plain text.\nNothing else.",
		},
		{
			name:  "single_comment",
			input: "<!-- hero section -->",
			want:  "<!-- hero section -->",
		},
		{
			name:  "fenced_block_with_explanation",
			input: "```html\n<div class=\"p-4\">\n  <h1>Hi</h1>\n</div>\n```\nThis code creates a card.",
			want:  "<div class=\"p-4\">\n  <h1>Hi</h1>\n</div>",
		},
		{
			name: "interleaved_prose",
			input: "Sure! Here's a contact form.\n" +
				"<form class=\"space-y-4\">\n" +
				"  <label class=\"block\">Name</label>\n" +
				"This form uses Tailwind CSS for styling.\n" +
				"  <input type=\"text\" class=\"border p-2\">\n" +
				"  <button class=\"bg-blue-500 text-white\">Send</button>\n" +
				"</form>\n" +
				"Key features:\n" +
				"- Responsive layout",
			want: "<form class=\"space-y-4\">\n" +
				"  <label class=\"block\">Name</label>\n" +
				"  <input type=\"text\" class=\"border p-2\">\n" +
				"  <button class=\"bg-blue-500 text-white\">Send</button>\n" +
				"</form>",
		},
		{
			name:  "keyword_prose_inside_block",
			input: "<div>\n  <p>Welcome</p>\nThe styling keeps everything aligned on small screens\n</div>",
			want:  "<div>\n  <p>Welcome</p>\n</div>",
		},
		{
			name:  "short_text_line_kept",
			input: "<form>\n  <button>\n    Send form\n  </button>\n</form>",
			want:  "<form>\n  <button>\n    Send form\n  </button>\n</form>",
		},
		{
			name:  "tag_split_over_lines",
			input: "<div\n  class=\"grid\">Cards go here\n</div>",
			want:  "<div\n  class=\"grid\">Cards go here\n</div>",
		},
		{
			name:  "leading_prose_without_block_tag",
			input: "Here is the paragraph:\n<p>Hello</p>",
			want:  "<p>Hello</p>",
		},
		{
			name:  "comparison_in_trailing_prose",
			input: "<p>x</p>\nif a > b then",
			want:  "<p>x</p>",
		},
		{
			name:  "unbalanced_fence",
			input: "```html\n<section>\n  <h2>Title</h2>\n</section>",
			want:  "<section>\n  <h2>Title</h2>\n</section>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClean_Fixtures(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"contact_form.txt", "contact_form.html"},
		{"pricing_interleaved.txt", "pricing_interleaved.html"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Clean(readTestdata(t, tt.input))
			want := strings.TrimSpace(readTestdata(t, tt.want))
			if got != want {
				t.Errorf("Clean() mismatch\ngot:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestClean_Properties(t *testing.T) {
	inputs := []string{
		"",
		"plain words",
		"```html\n<div>a</div>\n```",
		"Here's the layout:\n```\n<main>\n  <p>ok</p>\n</main>\n```\nEnjoy!",
		"   \n\t<nav>\n  <a href=\"#\">Home</a>\n</nav>\n\n",
		"<div>unterminated",
		"```html<p>inline</p>```",
		"<section>\n  <p>a</p>\n</section>\n```",
		"```css\n.a{}\n```\n```html\n<b>x</b>\n```",
	}

	for _, in := range inputs {
		got := Clean(in)

		if got != strings.TrimSpace(got) {
			t.Errorf("Clean(%q) = %q, has surrounding whitespace", in, got)
		}
		if strings.Contains(got, "```") {
			t.Errorf("Clean(%q) = %q, still contains a fence", in, got)
		}
		if !HasMarkup(in) && got != strings.TrimSpace(StripFences(in)) {
			t.Errorf("Clean(%q) = %q, want trimmed input", in, got)
		}
	}
}

func TestClean_NotIdempotent(t *testing.T) {
	input := "  * item one is a thing\n<p>hi</p>"

	first := Clean(input)
	if want := "* item one is a thing\n<p>hi</p>"; first != want {
		t.Fatalf("first pass = %q, want %q", first, want)
	}

	second := Clean(first)
	if want := "<p>hi</p>"; second != want {
		t.Errorf("second pass = %q, want %q", second, want)
	}
}

func TestClean_Concurrent(t *testing.T) {
	input := readTestdata(t, "pricing_interleaved.txt")
	want := Clean(input)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Clean(input); got != want {
				t.Errorf("concurrent Clean() = %q, want %q", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestCleaner_Interface(t *testing.T) {
	c := New()

	if got := c.Name(); got != "markup" {
		t.Errorf("Name() = %q, want %q", got, "markup")
	}

	got, err := c.Clean("Here is it:\n<div>x</div>")
	if err != nil {
		t.Fatalf("Clean() error = %v, want nil", err)
	}
	if got != "<div>x</div>" {
		t.Errorf("Clean() = %q, want %q", got, "<div>x</div>")
	}
}

func TestCleaner_WithTagOpeners(t *testing.T) {
	input := "intro\n<p>Hi</p>"

	if got := New().Extract(input); got != input {
		t.Errorf("default Extract() = %q, want %q", got, input)
	}

	c := New(WithTagOpeners("<p"))
	if got := c.Extract(input); got != "<p>Hi</p>" {
		t.Errorf("Extract() = %q, want %q", got, "<p>Hi</p>")
	}
}

func TestCleaner_WithRules(t *testing.T) {
	input := "<div>\nTODO: wire this\n</div>"

	if got := New().Extract(input); got != input {
		t.Errorf("default Extract() = %q, want %q", got, input)
	}

	rules := DefaultRules()
	rules.Prose = append(rules.Prose, Rule{
		Name:    "todo",
		Pattern: mustCompile(t, `(?i)^todo\b`),
	})
	c := New(WithRules(rules))

	res := c.CleanWithStats(input)
	if res.Content != "<div>\n</div>" {
		t.Errorf("Extract() = %q, want %q", res.Content, "<div>\n</div>")
	}
	if res.Stats.RuleDrops["todo"] != 1 {
		t.Errorf("RuleDrops[todo] = %d, want 1", res.Stats.RuleDrops["todo"])
	}
}

func TestCleaner_WithRulesDoesNotLeak(t *testing.T) {
	rules := DefaultRules()
	rules.Prose = nil
	rules.Keyword = KeywordRule{}
	_ = New(WithRules(rules))

	if got := Clean("<div>\nNote: kept?\n</div>"); got != "<div>\n</div>" {
		t.Errorf("default Clean() = %q, custom rules leaked into defaults", got)
	}
}

func TestCleaner_Pipeline(t *testing.T) {
	want := []string{"fences", "leading", "trailing", "prose", "tail", "trim"}
	got := New().Pipeline().Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Pipeline().Names() = %v, want %v", got, want)
	}
}
