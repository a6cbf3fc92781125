// ABOUTME: Serializes pre-rendered HTML into the <llm-document> XML payload
// ABOUTME: The body is opaque and wrapped wholesale in a CDATA <llm-body>
package core

import "github.com/harper/docright/internal/models"

// BuildDocumentXML wraps html, whose inline markers are already materialized,
// in the same envelope as BuildCalloutsXML.
func BuildDocumentXML(html string, overall []models.OverallCallout, contexts []models.ContextItem) string {
	b := newXMLBuilder()
	b.overall(overall)
	b.line("<llm-body>")
	b.line("  " + WrapCdata(html))
	b.line("</llm-body>")
	b.contexts(contexts)
	return b.close()
}
