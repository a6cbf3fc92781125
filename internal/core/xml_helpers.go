// ABOUTME: XML escaping primitives shared by the document serializers
// ABOUTME: Instruction text is always CDATA-wrapped; document text is entity-escaped
package core

import "strings"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
)

// EscapeText escapes &, < and > for use in XML character data.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttribute escapes s for use inside a quoted XML attribute.
func EscapeAttribute(s string) string {
	return attrEscaper.Replace(s)
}

// WrapCdata wraps s in a CDATA section, splitting every "]]>" so the section
// cannot be closed early.
func WrapCdata(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}
