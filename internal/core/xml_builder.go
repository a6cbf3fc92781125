// ABOUTME: Line-oriented builder shared by the callout and document serializers
// ABOUTME: Emits the <llm-document> envelope with its overall and context blocks
package core

import (
	"strconv"
	"strings"

	"github.com/harper/docright/internal/models"
)

type xmlBuilder struct {
	sb strings.Builder
}

func newXMLBuilder() *xmlBuilder {
	b := &xmlBuilder{}
	b.sb.WriteString("<llm-document>\n")
	return b
}

// line writes value on its own line, starting a new line first if needed.
func (b *xmlBuilder) line(value string) {
	if s := b.sb.String(); s != "" && !strings.HasSuffix(s, "\n") {
		b.sb.WriteByte('\n')
	}
	b.sb.WriteString(value)
	b.sb.WriteByte('\n')
}

func (b *xmlBuilder) text(value string) {
	b.sb.WriteString(value)
}

func (b *xmlBuilder) cdataTag(indent, tag, value string) {
	b.line(indent + "<" + tag + ">")
	b.line(indent + "  " + WrapCdata(value))
	b.line(indent + "</" + tag + ">")
}

func (b *xmlBuilder) overall(callouts []models.OverallCallout) {
	if len(callouts) == 0 {
		return
	}
	b.line("<llm-overall>")
	for i, c := range callouts {
		b.line(`  <llm-callout id="overall-` + strconv.Itoa(i+1) + `">`)
		b.cdataTag("    ", "instruction", c.Instruction)
		b.line("  </llm-callout>")
	}
	b.line("</llm-overall>")
}

func (b *xmlBuilder) contexts(items []models.ContextItem) {
	if len(items) == 0 {
		return
	}
	b.line("<context>")
	for i, item := range items {
		b.line(`  <context-document id="context-` + strconv.Itoa(i+1) + `">`)
		b.cdataTag("    ", "reference", "<"+item.Name+">")
		b.line("    <name>" + EscapeText(item.Name) + "</name>")
		b.line("    <description>" + EscapeText(item.Description) + "</description>")
		b.line("    <path>" + EscapeText(item.Path) + "</path>")
		b.line("  </context-document>")
	}
	b.line("</context>")
}

func (b *xmlBuilder) close() string {
	b.line("</llm-document>")
	return b.sb.String()
}
