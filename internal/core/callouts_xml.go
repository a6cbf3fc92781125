// ABOUTME: Serializes plain document text plus callouts into the <llm-document> XML payload
// ABOUTME: Inline callouts become <llm-edit> wrappers around escaped covered text
package core

import (
	"strconv"

	"github.com/harper/docright/internal/models"
)

// BuildCalloutsXML serializes text with its inline callouts, overall callouts
// and context items. Inline callouts may arrive in any order but must not
// overlap; an overlap yields an *OverlapError.
func BuildCalloutsXML(text string, inline []models.InlineCallout, overall []models.OverallCallout, contexts []models.ContextItem) (string, error) {
	units := Units(text)
	sorted := SortByStart(inline)

	b := newXMLBuilder()
	b.overall(overall)

	cursor := 0
	for i, c := range sorted {
		if c.StartOffset < cursor {
			return "", &OverlapError{StartOffset: c.StartOffset, EndOffset: c.EndOffset, Cursor: cursor}
		}
		b.text(EscapeText(SliceUnits(units, cursor, c.StartOffset)))
		b.line(`<llm-edit id="` + strconv.Itoa(i+1) + `">`)
		b.cdataTag("  ", "instruction", c.Instruction)
		b.text(EscapeText(SliceUnits(units, c.StartOffset, c.EndOffset)))
		b.line("</llm-edit>")
		cursor = c.EndOffset
	}
	b.text(EscapeText(SliceUnits(units, cursor, len(units))))

	b.contexts(contexts)
	return b.close(), nil
}
