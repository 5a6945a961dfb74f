// Package preview turns generated fragments into something a person can look
// at: a standalone page, a structural summary or a rendered screenshot.
package preview

import (
	"fmt"
	"html"
	"strings"
)

// TailwindCDN is the script that styles standalone documents.
const TailwindCDN = "https://cdn.tailwindcss.com"

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <script src="%s"></script>
</head>
<body class="min-h-screen bg-gray-100 p-8">
%s
</body>
</html>
`

// IsDocument reports whether markup is already a complete HTML document.
func IsDocument(markup string) bool {
	lower := strings.ToLower(markup)
	return strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html")
}

// Document wraps fragment in a page that loads Tailwind from its CDN.
// Markup that is already a complete document is returned unchanged.
// An empty title becomes "uiforge design".
func Document(fragment, title string) string {
	if IsDocument(fragment) {
		return fragment
	}
	if strings.TrimSpace(title) == "" {
		title = "uiforge design"
	}
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), TailwindCDN, strings.TrimSpace(fragment))
}
