// Package markdown renders article bodies to HTML.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
		htmlrenderer.WithUnsafe(),
	),
)

// ugc allows the usual formatting tags of rendered markdown and nothing
// else. Raw HTML in the source passes through the renderer, so sanitizing
// the output is what keeps script out of article pages.
var ugc = bluemonday.UGCPolicy()

// Render converts markdown text to sanitized HTML. Empty input renders to
// an empty string; a conversion failure degrades to escaped plain text.
func Render(source string) string {
	text := strings.TrimSpace(source)
	if text == "" {
		return ""
	}

	var out bytes.Buffer
	if err := engine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return ugc.Sanitize(out.String())
}
