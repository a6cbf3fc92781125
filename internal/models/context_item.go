// ABOUTME: ContextItem is an external reference surfaced to the model
// ABOUTME: Persisted in contexts.json; has no offset relationship to the document
package models

// ContextItem names a reference document the model may consult.
type ContextItem struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
}

// ContextsState is the persisted shape of contexts.json.
type ContextsState struct {
	Items []ContextItem `json:"items"`
}
