// ABOUTME: Default prompt templates written into new projects
// ABOUTME: The iteration template uses {{scope_mode}} and {{scope_location}} tokens
package storage

// DefaultLLMPreamble introduces the task to the model.
const DefaultLLMPreamble = `You are helping draft a written communication for the user.

You will receive an XML document that wraps a source document plus LLM callouts.
Your job is to apply the callouts to produce an updated document.
`

// DefaultIterationPreamble scopes each iteration.
const DefaultIterationPreamble = `Iteration scope guidance:
- Scope mode: {{scope_mode}}
- Scope location: {{scope_location}}

Instructions:
- Only return updated text for the scoped section.
- Do not rewrite the full document.
`
