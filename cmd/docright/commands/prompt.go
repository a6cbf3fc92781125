// ABOUTME: Prompt command builds the LLM prompt for the current project
// ABOUTME: Prints it whole, as chunked JSON-lines transport messages, or as statistics
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/config"
	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/llm"
	"github.com/harper/docright/internal/transport"
	"github.com/harper/docright/internal/workspace"
)

var (
	promptBody      string
	promptMessages  bool
	promptListen    bool
	promptStats     bool
	promptOut       string
	promptChunkSize int
	promptModel     string
)

// NewPromptCmd creates the prompt command
func NewPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Build the LLM prompt",
		Long: `Build the LLM prompt: the model preamble, scope guidance rendered from
the iteration template, and the <llm-document> XML holding the document,
its callouts and context references.

--body chooses how the document appears:
  text      plain text with <llm-edit> markers placed by offset
  html      the document as HTML source with markers spliced in, inside <llm-body>
  markdown  Markdown rendered to HTML inside <llm-body>
  org       Org rendered to HTML inside <llm-body>
The default follows the document file extension.

--messages writes the prompt as JSON-lines transport messages split into
chunks of llm.promptChunkSize code units. With --listen the command then
reads consumer messages (llm.ready, llm.requestPrompt, ...) from stdin
and resends the prompt when asked.

Examples:
  docright prompt > prompt.txt
  docright prompt --body markdown --stats
  docright prompt --messages --chunk-size 4000 | docright receive`,
		Args: cobra.NoArgs,
		RunE: runPrompt,
	}

	cmd.Flags().StringVar(&promptBody, "body", "", "Document body: text, html, markdown or org")
	cmd.Flags().BoolVar(&promptMessages, "messages", false, "Write chunked JSON-lines transport messages")
	cmd.Flags().BoolVar(&promptListen, "listen", false, "With --messages, answer consumer messages read from stdin")
	cmd.Flags().BoolVar(&promptStats, "stats", false, "Print prompt statistics instead of the prompt")
	cmd.Flags().StringVar(&promptOut, "out", "", "Write output to a file")
	cmd.Flags().IntVar(&promptChunkSize, "chunk-size", 0, "Chunk size in code units (default: llm.promptChunkSize)")
	cmd.Flags().StringVar(&promptModel, "model", "", "Model used for token counts (default: llm.defaultModel)")
	cmd.MarkFlagsMutuallyExclusive("messages", "stats")

	return cmd
}

func runPrompt(cmd *cobra.Command, args []string) error {
	body, err := workspace.ParseBody(promptBody)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("chunk-size") {
		if err := validatePositiveInt(promptChunkSize, "chunk-size"); err != nil {
			return fmt.Errorf("%w: %v", core.ErrInvalidConfiguration, err)
		}
	}
	if promptListen && !promptMessages {
		return fmt.Errorf("--listen requires --messages")
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	prompt, err := ws.Prompt(body)
	if err != nil {
		return err
	}
	chunkSize := promptChunkSize
	if chunkSize == 0 {
		chunkSize = ws.Settings.LLM.PromptChunkSize
	}

	w, closeOut, err := outputWriter(cmd, promptOut)
	if err != nil {
		return err
	}
	defer closeOut()

	switch {
	case promptStats:
		chunks, err := core.BuildPromptChunks(prompt, chunkSize)
		if err != nil {
			return err
		}
		model := ws.Model(promptModel)
		fmt.Fprintf(w, "Body:     %s\n", ws.ResolveBody(body))
		fmt.Fprintf(w, "Scope:    %s\n", core.ScopeModeLabel(ws.Session.Scope()))
		fmt.Fprintf(w, "Callouts: %d inline, %d overall\n", len(ws.Session.InlineCallouts()), len(ws.Session.State().Overall))
		fmt.Fprintf(w, "Contexts: %d\n", len(ws.Session.Contexts()))
		fmt.Fprintf(w, "Length:   %d code units\n", core.Len16(prompt))
		fmt.Fprintf(w, "Chunks:   %d of up to %d\n", chunks.Total, chunkSize)
		if tokens, err := llm.CountTokens(model, prompt); err != nil {
			newLogger(cmd).Debug("token count unavailable", "err", err)
			fmt.Fprintf(w, "Tokens:   unavailable\n")
		} else {
			fmt.Fprintf(w, "Tokens:   %d (%s)\n", tokens, model)
		}
		return nil

	case promptMessages:
		logger := newLogger(cmd)
		pub := transport.NewPublisher(transport.NewLineChannel(w), chunkSize, logger)
		pub.OnToggleAutoSave = func(enabled bool) {
			ws.Settings.Iterations.AutoSave = enabled
			if err := config.SaveSettings(ws.Project.SettingsPath(), ws.Settings); err != nil {
				logger.Warn("saving settings", "err", err)
			}
		}
		ctx := cmd.Context()
		if err := pub.PostState(ctx, transport.State{Status: "ready", AutoSave: ws.Settings.Iterations.AutoSave}); err != nil {
			return err
		}
		if _, err := pub.Publish(ctx, prompt, true); err != nil {
			return err
		}
		if promptListen {
			return transport.ReadInbound(ctx, cmd.InOrStdin(), func(msg transport.Inbound) error {
				return pub.Handle(ctx, msg)
			})
		}
		return nil

	default:
		_, err := fmt.Fprintln(w, prompt)
		return err
	}
}
