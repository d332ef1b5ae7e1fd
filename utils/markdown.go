package utils

import (
	"html/template"

	"gitlab.com/golang-commonmark/markdown"
)

var md = markdown.New(
	markdown.HTML(false),
	markdown.Tables(true),
	markdown.Typographer(true),
	markdown.XHTMLOutput(true),
	markdown.Nofollow(true))

// MarkdownToHTML renders post content. Raw HTML in the source is escaped.
func MarkdownToHTML(text string) template.HTML {
	return template.HTML(md.RenderToString([]byte(text)))
}
