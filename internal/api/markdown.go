package api

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|script|style|img)[\s>/]`)

// descriptionPolicy keeps simple formatting and drops anything executable.
var descriptionPolicy = bluemonday.UGCPolicy()

// containsHTML checks if a string appears to contain HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// htmlToMarkdown converts a book description to Markdown for clients that do not render
// HTML. Markup is sanitized first; plain text is returned unchanged.
func htmlToMarkdown(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	clean := descriptionPolicy.Sanitize(s)
	markdown, err := htmltomarkdown.ConvertString(clean)
	if err != nil {
		return clean
	}

	return strings.TrimSpace(markdown)
}
