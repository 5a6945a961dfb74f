package preview

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Summary describes the structure of a fragment.
type Summary struct {
	Elements    int      `json:"elements" yaml:"elements"`
	Tags        []string `json:"tags" yaml:"tags"`
	ClassTokens int      `json:"class_tokens" yaml:"class_tokens"`
	Heading     string   `json:"heading,omitempty" yaml:"heading,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
}

// String renders the summary for terminal output.
func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Elements:      %d\n", s.Elements)
	fmt.Fprintf(&sb, "Tags:          %s\n", strings.Join(s.Tags, ", "))
	fmt.Fprintf(&sb, "Class tokens:  %d\n", s.ClassTokens)
	if s.Title != "" {
		fmt.Fprintf(&sb, "Title:         %s\n", s.Title)
	}
	if s.Heading != "" {
		fmt.Fprintf(&sb, "Heading:       %s\n", s.Heading)
	}
	return sb.String()
}

// Inspect parses markup and summarises the elements rendered in its body:
// how many there are, which tags appear (in document order), how many
// utility class tokens they carry and the text of the first heading.
func Inspect(markup string) (*Summary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	s := &Summary{Tags: []string{}}
	seen := make(map[string]bool)

	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		s.Elements++
		tag := goquery.NodeName(sel)
		if !seen[tag] {
			seen[tag] = true
			s.Tags = append(s.Tags, tag)
		}
		if class, ok := sel.Attr("class"); ok {
			s.ClassTokens += len(strings.Fields(class))
		}
	})

	if h := doc.Find("h1, h2, h3, h4, h5, h6").First(); h.Length() > 0 {
		s.Heading = collapseSpace(h.Text())
	}
	s.Title = collapseSpace(doc.Find("title").First().Text())

	return s, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
