package preview

import (
	"strings"
	"unicode"
)

const maxSlugLength = 60

// Filename derives a file name for a downloaded design from its first heading,
// falling back to fallback and then to "design". The result is lower-case
// ASCII letters, digits and hyphens with an .html extension.
func Filename(s *Summary, fallback string) string {
	var candidates []string
	if s != nil {
		candidates = append(candidates, s.Heading, s.Title)
	}
	candidates = append(candidates, fallback)

	for _, c := range candidates {
		if slug := slugify(c); slug != "" {
			return slug + ".html"
		}
	}
	return "design.html"
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= maxSlugLength {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
