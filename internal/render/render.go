// ABOUTME: Renders a document source plus inline callouts into HTML with <llm-edit> markers
// ABOUTME: Supports plain text, HTML, Markdown (goldmark) and Org (go-org) sources
package render

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/models"
	goorg "github.com/niklasfasching/go-org/org"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Format names a document source syntax.
type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatOrg      Format = "org"
)

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "text", "txt":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "org":
		return FormatOrg, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// syntax describes how markers are spliced into one source format.
type syntax struct {
	segment func(string) string
	open    func(i int, c models.InlineCallout) string
	close   func(i int) string
}

var (
	textSyntax = syntax{
		segment: func(s string) string {
			return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>\n")
		},
		open:  markerOpen,
		close: markerClose,
	}
	htmlSyntax = syntax{
		segment: identity,
		open:    markerOpen,
		close:   markerClose,
	}
)

func identity(s string) string { return s }

func markerOpen(_ int, c models.InlineCallout) string {
	return `<llm-edit id="` + html.EscapeString(c.ID) + `"><instruction>` + html.EscapeString(c.Instruction) + `</instruction>`
}

func markerClose(int) string { return "</llm-edit>" }

// placeholders stand in for markers while a markup converter runs, so the
// converter never parses instruction text. Tokens are plain letters and
// digits, which neither Markdown nor Org treats as markup.
type placeholders struct {
	prefix string
}

func newPlaceholders(source string) placeholders {
	prefix := "llmmark"
	for n := 0; strings.Contains(source, prefix); n++ {
		prefix = "llmmark" + strconv.Itoa(n) + "q"
	}
	return placeholders{prefix: prefix}
}

func (p placeholders) open(i int) string  { return p.prefix + "o" + strconv.Itoa(i) + "e" }
func (p placeholders) close(i int) string { return p.prefix + "c" + strconv.Itoa(i) + "e" }

func (p placeholders) syntax() syntax {
	return syntax{
		segment: identity,
		open:    func(i int, _ models.InlineCallout) string { return p.open(i) },
		close:   p.close,
	}
}

// restore swaps every placeholder in out for its real marker.
func (p placeholders) restore(out string, callouts []models.InlineCallout) string {
	pairs := make([]string, 0, 4*len(callouts))
	for i, c := range callouts {
		pairs = append(pairs, p.open(i), markerOpen(i, c), p.close(i), markerClose(i))
	}
	return strings.NewReplacer(pairs...).Replace(out)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// Render materializes callouts into source and converts it to HTML.
// Callouts must not overlap. Instruction text is never run through the
// Markdown or Org converters.
func Render(format Format, source string, callouts []models.InlineCallout) (string, error) {
	switch format {
	case FormatText:
		return materialize(textSyntax, source, callouts)
	case FormatHTML:
		return materialize(htmlSyntax, source, callouts)
	case FormatMarkdown, FormatOrg:
		sorted := core.SortByStart(callouts)
		ph := newPlaceholders(source)
		marked, err := materialize(ph.syntax(), source, sorted)
		if err != nil {
			return "", err
		}
		out, err := convert(format, marked)
		if err != nil {
			return "", err
		}
		return ph.restore(out, sorted), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func convert(format Format, source string) (string, error) {
	if format == FormatOrg {
		out, err := goorg.New().Parse(strings.NewReader(source), "").Write(goorg.NewHTMLWriter())
		if err != nil {
			return "", fmt.Errorf("rendering org: %w", err)
		}
		return out, nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

func materialize(syn syntax, source string, callouts []models.InlineCallout) (string, error) {
	units := core.Units(source)
	var b strings.Builder
	cursor := 0
	for i, c := range core.SortByStart(callouts) {
		if c.StartOffset < cursor {
			return "", &core.OverlapError{StartOffset: c.StartOffset, EndOffset: c.EndOffset, Cursor: cursor}
		}
		b.WriteString(syn.segment(core.SliceUnits(units, cursor, c.StartOffset)))
		b.WriteString(syn.open(i, c))
		b.WriteString(syn.segment(core.SliceUnits(units, c.StartOffset, c.EndOffset)))
		b.WriteString(syn.close(i))
		cursor = c.EndOffset
	}
	b.WriteString(syn.segment(core.SliceUnits(units, cursor, len(units))))
	return b.String(), nil
}
