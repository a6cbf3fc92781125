// ABOUTME: MCP tool handler implementations for the docright server
// ABOUTME: Each call reloads the project, applies one operation and saves under a mutex
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/models"
	"github.com/harper/docright/internal/workspace"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	mu     sync.Mutex
	ws     *workspace.Workspace
	logger *log.Logger

	// transfer ids for get_prompt_chunk, bumped whenever the prompt changes
	transferID int
	lastPrompt string
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok || args == nil {
		return map[string]any{}
	}
	return args
}

// reload picks up edits made on disk since the last call.
func (h *Handlers) reload() error {
	if err := h.ws.Reload(); err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	return nil
}

func (h *Handlers) body(request mcp.CallToolRequest) (workspace.Body, error) {
	return workspace.ParseBody(request.GetString("body", ""))
}

// BuildPrompt handles the build_prompt tool
func (h *Handlers) BuildPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	body, err := h.body(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prompt, err := h.ws.Prompt(body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build prompt: %v", err)), nil
	}
	return mcp.NewToolResultText(prompt), nil
}

// GetPromptChunk handles the get_prompt_chunk tool
func (h *Handlers) GetPromptChunk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	args := arguments(request)
	if _, ok := args["index"]; !ok {
		return mcp.NewToolResultError("index argument is required and must be a number"), nil
	}
	index := request.GetInt("index", -1)
	chunkSize := request.GetInt("chunk_size", 0)
	if chunkSize < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("%v: chunk_size must be positive", core.ErrInvalidConfiguration)), nil
	}
	body, err := h.body(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prompt, err := h.ws.Prompt(body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build prompt: %v", err)), nil
	}
	if chunkSize == 0 {
		chunkSize = h.ws.Settings.LLM.PromptChunkSize
	}
	chunks, err := core.BuildPromptChunks(prompt, chunkSize)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if index < 0 || index >= chunks.Total {
		return mcp.NewToolResultError(fmt.Sprintf("index %d out of range: prompt has %d chunks", index, chunks.Total)), nil
	}

	if h.transferID == 0 || prompt != h.lastPrompt {
		h.transferID++
		h.lastPrompt = prompt
		h.logger.Debug("new prompt transfer", "id", h.transferID, "total", chunks.Total)
	}

	return jsonResult(map[string]any{
		"id":    h.transferID,
		"total": chunks.Total,
		"index": index,
		"chunk": chunks.Chunks[index],
	})
}

// AddInlineCallout handles the add_inline_callout tool
func (h *Handlers) AddInlineCallout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	args := arguments(request)
	for _, key := range []string{"start", "end"} {
		if _, ok := args[key]; !ok {
			return mcp.NewToolResultError(key + " argument is required and must be a number"), nil
		}
	}
	instruction, err := request.RequireString("instruction")
	if err != nil {
		return mcp.NewToolResultError("instruction argument is required and must be a string"), nil
	}
	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	callout, err := h.ws.Session.AddInlineCallout(request.GetInt("start", 0), request.GetInt("end", 0), instruction)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add callout: %v", err)), nil
	}
	if err := h.ws.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(callout)
}

// AddOverallCallout handles the add_overall_callout tool
func (h *Handlers) AddOverallCallout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	instruction, err := request.RequireString("instruction")
	if err != nil {
		return mcp.NewToolResultError("instruction argument is required and must be a string"), nil
	}
	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	callout, err := h.ws.Session.AddOverallCallout(instruction)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add callout: %v", err)), nil
	}
	if err := h.ws.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(callout)
}

// RemoveCallout handles the remove_callout tool
func (h *Handlers) RemoveCallout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}
	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.ws.Session.RemoveCallout(strings.TrimSpace(id)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.ws.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"removed": id})
}

// ListCallouts handles the list_callouts tool
func (h *Handlers) ListCallouts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s := h.ws.Session
	state := s.State()
	return jsonResult(map[string]any{
		"inline":        s.InlineCallouts(),
		"overall":       state.Overall,
		"contexts":      s.Contexts(),
		"scope":         s.Scope(),
		"scope_mode":    core.ScopeModeLabel(s.Scope()),
		"document_size": core.Len16(s.Text()),
	})
}

// ApplyTextChanges handles the apply_text_changes tool
func (h *Handlers) ApplyTextChanges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	args := arguments(request)
	if err := validateArguments(textChangesSchema, args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := json.Marshal(args["changes"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid changes: %v", err)), nil
	}
	var changes []models.TextChange
	if err := json.Unmarshal(raw, &changes); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid changes: %v", err)), nil
	}

	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changed, err := h.ws.Session.ApplyChanges(changes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to apply changes: %v", err)), nil
	}
	if err := h.ws.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"callouts_changed": changed,
		"document_size":    core.Len16(h.ws.Session.Text()),
		"inline":           h.ws.Session.InlineCallouts(),
	})
}

// SetScope handles the set_scope tool
func (h *Handlers) SetScope(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	requested := request.GetString("mode", "")
	scope := h.ws.Session.SetScope(arguments(request))
	if requested == string(models.ScopeRange) && !scope.IsRange() {
		h.logger.Debug("scope normalized to full", "requested", requested)
	}
	if err := h.ws.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"scope":       scope,
		"label":       core.ScopeModeLabel(scope),
		"description": core.ScopeDescription(scope),
	})
}

// AddContext handles the add_context tool
func (h *Handlers) AddContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path argument is required and must be a string"), nil
	}
	if err := h.reload(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	item, err := h.ws.Session.AddContext(models.ContextItem{
		Name:        name,
		Path:        path,
		Description: request.GetString("description", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.ws.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(item)
}

// validateArguments checks args against a JSON schema.
func validateArguments(schema map[string]any, args map[string]any) error {
	argBytes, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal arguments for validation: %w", err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewBytesLoader(argBytes))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("arguments failed validation: %s", strings.Join(details, "; "))
}
