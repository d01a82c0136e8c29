package markdown

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts a note's raw markdown to HTML. Malformed input degrades
// to escaped plain text instead of returning an error; one bad note must
// never take down the whole page.
func Render(content string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fallback(content)
		}
	}()

	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return fallback(content)
	}
	return buf.String()
}

func fallback(content string) string {
	return "<p>" + html.EscapeString(content) + "</p>"
}
