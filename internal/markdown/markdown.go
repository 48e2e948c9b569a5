// Package markdown renders run reports as Markdown and HTML.
package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func ToHTML(md []byte) string {
	opts := html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	}
	renderer := html.NewRenderer(opts)
	ext := parser.CommonExtensions | parser.Attributes
	p := parser.NewWithExtensions(ext)
	doc := p.Parse(md)
	return string(markdown.Render(doc, renderer))
}

// Page renders md as a standalone HTML document.
func Page(title string, md []byte) string {
	opts := html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.HrefTargetBlank | html.CompletePage,
	}
	renderer := html.NewRenderer(opts)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Attributes)
	return string(markdown.Render(p.Parse(md), renderer))
}

// ToPlainText drops Markdown formatting, keeping the text a reader sees.
func ToPlainText(md []byte) string {
	htmlContent := ToHTML(md)
	return strings.TrimSpace(stdhtml.UnescapeString(StripHTMLTags(htmlContent)))
}

func StripHTMLTags(htmlContent string) string {
	var result bytes.Buffer
	inTag := false

	for _, ch := range htmlContent {
		switch ch {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				result.WriteRune(ch)
			}
		}
	}

	return result.String()
}

// Section is one block of a report. Body is written verbatim as a quote so
// the post's own Markdown survives.
type Section struct {
	Title string
	Body  string
	Notes []string
}

type Document struct {
	Title    string
	Summary  []string
	Sections []Section
}

// Render writes doc as Markdown.
func Render(doc Document) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", doc.Title)
	for _, line := range doc.Summary {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	if len(doc.Summary) > 0 {
		sb.WriteString("\n")
	}

	for _, s := range doc.Sections {
		fmt.Fprintf(&sb, "## %s\n\n", s.Title)
		if body := strings.TrimSpace(s.Body); body != "" {
			for _, line := range strings.Split(body, "\n") {
				if strings.TrimSpace(line) == "" {
					sb.WriteString(">\n")
					continue
				}
				fmt.Fprintf(&sb, "> %s\n", line)
			}
			sb.WriteString("\n")
		}
		for _, note := range s.Notes {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
		if len(s.Notes) > 0 {
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String())
}
