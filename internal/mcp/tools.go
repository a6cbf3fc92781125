// ABOUTME: MCP tool definitions and registration for the docright server
// ABOUTME: Exposes callouts, scope, contexts, text edits and prompt building to agents
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/harper/docright/internal/logging"
	"github.com/harper/docright/internal/workspace"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// textChangesSchema describes apply_text_changes arguments. It is both the
// advertised input schema and the schema arguments are validated against.
var textChangesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"changes": map[string]any{
			"type":        "array",
			"description": "Edits to apply, each replacing [rangeOffset, rangeOffset+rangeLength) with text. Offsets are UTF-16 code units.",
			"minItems":    1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"rangeOffset": map[string]any{"type": "integer", "minimum": 0},
					"rangeLength": map[string]any{"type": "integer", "minimum": 0},
					"text":        map[string]any{"type": "string"},
				},
				"required":             []string{"rangeOffset", "rangeLength", "text"},
				"additionalProperties": false,
			},
		},
	},
	"required": []string{"changes"},
}

var bodyProperty = map[string]any{
	"type":        "string",
	"description": "Document body: text (offset markers), html, markdown or org. Defaults from the document file extension.",
	"enum":        []string{"", "text", "html", "markdown", "org"},
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, ws *workspace.Workspace, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = logging.Discard()
	}
	handlers := &Handlers{ws: ws, logger: logger}

	// 1. build_prompt - Assemble the full prompt
	server.AddTool(mcp.Tool{
		Name:        "build_prompt",
		Description: "Build the full LLM prompt for the document: preamble, scope guidance and the <llm-document> XML with all callouts and contexts.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"body": bodyProperty,
			},
		},
	}, handlers.BuildPrompt)

	// 2. get_prompt_chunk - Fetch the prompt one chunk at a time
	server.AddTool(mcp.Tool{
		Name:        "get_prompt_chunk",
		Description: "Fetch one chunk of the current prompt. Returns {id, total, index, chunk}; request indices 0..total-1 and concatenate them in index order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"index": map[string]any{
					"type":        "number",
					"description": "Zero-based chunk index",
				},
				"chunk_size": map[string]any{
					"type":        "number",
					"description": "Chunk size in UTF-16 code units (default: llm.promptChunkSize setting)",
				},
				"body": bodyProperty,
			},
			Required: []string{"index"},
		},
	}, handlers.GetPromptChunk)

	// 3. add_inline_callout - Attach an instruction to a text range
	server.AddTool(mcp.Tool{
		Name:        "add_inline_callout",
		Description: "Attach an edit instruction to the document range [start, end), in UTF-16 code units. Fails if the range overlaps an existing inline callout.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"start": map[string]any{
					"type":        "number",
					"description": "Start offset (inclusive)",
				},
				"end": map[string]any{
					"type":        "number",
					"description": "End offset (exclusive)",
				},
				"instruction": map[string]any{
					"type":        "string",
					"description": "What to change in the covered text",
				},
			},
			Required: []string{"start", "end", "instruction"},
		},
	}, handlers.AddInlineCallout)

	// 4. add_overall_callout - Attach a document-wide instruction
	server.AddTool(mcp.Tool{
		Name:        "add_overall_callout",
		Description: "Add an instruction that applies to the whole document or the active scope.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"instruction": map[string]any{
					"type":        "string",
					"description": "Document-wide instruction",
				},
			},
			Required: []string{"instruction"},
		},
	}, handlers.AddOverallCallout)

	// 5. remove_callout - Delete a callout by id
	server.AddTool(mcp.Tool{
		Name:        "remove_callout",
		Description: "Remove an inline or overall callout by id (e.g. inline-2, overall-1).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Callout id",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.RemoveCallout)

	// 6. list_callouts - Show callouts, contexts and scope
	server.AddTool(mcp.Tool{
		Name:        "list_callouts",
		Description: "List inline and overall callouts along with context items and the active scope.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, handlers.ListCallouts)

	// 7. apply_text_changes - Edit the document and keep callouts aligned
	server.AddTool(mcp.Tool{
		Name:        "apply_text_changes",
		Description: "Apply text edits to the document. Inline callout ranges are shifted, resized or dropped to follow the edits.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: textChangesSchema["properties"].(map[string]any),
			Required:   []string{"changes"},
		},
	}, handlers.ApplyTextChanges)

	// 8. set_scope - Restrict editing to a selection or reset to full
	server.AddTool(mcp.Tool{
		Name:        "set_scope",
		Description: "Set the editing scope. mode=full targets the whole document; mode=range needs a selection with anchorKey and focusKey. Invalid input falls back to full.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"mode": map[string]any{
					"type": "string",
					"enum": []string{"full", "range"},
				},
				"selection": map[string]any{
					"type":        "object",
					"description": "{anchorKey, anchorOffset, anchorType, focusKey, focusOffset, focusType, isBackward}",
				},
			},
			Required: []string{"mode"},
		},
	}, handlers.SetScope)

	// 9. add_context - Reference an external document
	server.AddTool(mcp.Tool{
		Name:        "add_context",
		Description: "Add a context item: a named external reference surfaced to the model alongside the document.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Short name used in references",
				},
				"path": map[string]any{
					"type":        "string",
					"description": "Path or URL of the referenced document",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "Optional description",
				},
			},
			Required: []string{"name", "path"},
		},
	}, handlers.AddContext)

	return handlers
}
