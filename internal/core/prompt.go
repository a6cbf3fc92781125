// ABOUTME: Prompt assembly from the model preamble, iteration guidance and XML payload
// ABOUTME: Iteration templates substitute {{scope_mode}} and {{scope_location}}
package core

import (
	"strings"

	"github.com/harper/docright/internal/models"
)

// Template tokens recognised in iteration preambles.
const (
	TokenScopeMode     = "{{scope_mode}}"
	TokenScopeLocation = "{{scope_location}}"
)

// PromptParts are the inputs to BuildPrompt.
type PromptParts struct {
	LLMPreamble       string
	IterationTemplate string
	Scope             models.Scope
	XML               string
}

// RenderIterationPreamble substitutes every scope token in template.
// A blank template renders as "".
func RenderIterationPreamble(template string, scope models.Scope) string {
	if strings.TrimSpace(template) == "" {
		return ""
	}
	r := strings.NewReplacer(
		TokenScopeMode, ScopeModeLabel(scope),
		TokenScopeLocation, ScopeDescription(scope),
	)
	return r.Replace(template)
}

// BuildPrompt joins the trimmed, non-empty sections with a blank line in the
// order preamble, iteration guidance, XML.
func BuildPrompt(parts PromptParts) string {
	sections := []string{
		strings.TrimSpace(parts.LLMPreamble),
		strings.TrimSpace(RenderIterationPreamble(parts.IterationTemplate, parts.Scope)),
		strings.TrimSpace(parts.XML),
	}

	nonEmpty := sections[:0]
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}
