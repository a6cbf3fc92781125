// ABOUTME: Send command streams the prompt to an OpenAI-compatible model
// ABOUTME: Records the run, appends the session transcript and saves an iteration
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/config"
	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/llm"
	"github.com/harper/docright/internal/models"
	"github.com/harper/docright/internal/storage"
	"github.com/harper/docright/internal/storage/sqlite"
	"github.com/harper/docright/internal/workspace"
)

const snippetLength = 200

var (
	sendBody   string
	sendModel  string
	sendSave   bool
	sendNoSave bool
	sendOut    string
)

// NewSendCmd creates the send command
func NewSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the prompt to the model and stream the response",
		Long: `Build the prompt and send it to an OpenAI-compatible chat completion
endpoint, streaming the response to stdout.

Each run is written to .docright/llm/last_run.json and appended to the
session transcript. When iterations.autoSave is on (or --save is given)
the prompt and response are also saved as an iteration snapshot and
indexed in the history database.

Requires OPENAI_API_KEY. OPENAI_BASE_URL and DOCRIGHT_OPENAI_MODEL
override llm.baseUrl and llm.defaultModel.`,
		Example: `  docright send
  docright send --model gpt-4o --body markdown
  docright send --no-save --out response.txt`,
		Args: cobra.NoArgs,
		RunE: runSend,
	}

	cmd.Flags().StringVar(&sendBody, "body", "", "Document body: text, html, markdown or org")
	cmd.Flags().StringVar(&sendModel, "model", "", "Model to use (default: DOCRIGHT_OPENAI_MODEL or llm.defaultModel)")
	cmd.Flags().BoolVar(&sendSave, "save", false, "Save an iteration even when autosave is off")
	cmd.Flags().BoolVar(&sendNoSave, "no-save", false, "Do not save an iteration")
	cmd.Flags().StringVar(&sendOut, "out", "", "Also write the response to a file")
	cmd.MarkFlagsMutuallyExclusive("save", "no-save")

	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	body, err := workspace.ParseBody(sendBody)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	prompt, err := ws.Prompt(body)
	if err != nil {
		return err
	}
	model := sendModel
	if model == "" {
		model = ws.Model(cfg.ChatModel)
	}

	clientCfg := llm.DefaultConfig(cfg.OpenAIKey)
	clientCfg.ChatModel = model
	clientCfg.BaseURL = ws.Settings.LLM.BaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.Timeout = cfg.Timeout
	clientCfg.MaxRetries = cfg.MaxRetries
	clientCfg.RetryDelay = cfg.RetryDelay
	client, err := llm.NewOpenAIClientWithConfig(clientCfg)
	if err != nil {
		return err
	}

	logger.Debug("sending prompt", "model", model, "units", core.Len16(prompt))
	out := cmd.OutOrStdout()
	messages := []models.ChatMessage{{Role: "user", Content: prompt}}
	response, err := client.StreamChat(cmd.Context(), messages, func(delta string) {
		fmt.Fprint(out, delta)
	})
	if err != nil {
		return fmt.Errorf("model request failed: %w", err)
	}
	fmt.Fprintln(out)

	if sendOut != "" {
		w, closeOut, err := outputWriter(cmd, sendOut)
		if err != nil {
			return err
		}
		_, werr := fmt.Fprint(w, response)
		closeOut()
		if werr != nil {
			return werr
		}
	}

	now := time.Now().UTC()
	if err := ws.Project.SaveLastRun(models.LastRun{Model: model, Prompt: prompt, Response: response, CreatedAt: now}); err != nil {
		return fmt.Errorf("saving last run: %w", err)
	}

	session := ws.Project.LoadLLMSession()
	session.Model = &model
	session.Messages = append(session.Messages,
		models.ChatMessage{Role: "user", Content: prompt},
		models.ChatMessage{Role: "assistant", Content: response},
	)
	if err := ws.Project.SaveLLMSession(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	save := ws.Settings.Iterations.AutoSave
	if sendSave {
		save = true
	}
	if sendNoSave {
		save = false
	}
	if !save {
		return nil
	}

	it, err := ws.Project.SaveIteration(models.Iteration{
		Model:     model,
		Scope:     ws.Session.Scope(),
		Prompt:    prompt,
		Response:  response,
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("saving iteration: %w", err)
	}
	if err := recordHistory(ws.Project, it); err != nil {
		warn(cmd, "history not recorded: %v", err)
	}
	success(cmd, "Saved iteration %s", cyan(it.IterationID))
	return nil
}

// recordHistory indexes an iteration in the user history database.
func recordHistory(p *storage.Project, it models.Iteration) error {
	db, err := sqlite.Open(sqlite.DefaultDBPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tokens, err := llm.CountTokens(it.Model, it.Prompt)
	if err != nil {
		tokens = 0
	}
	return sqlite.NewHistoryStore(db).Record(sqlite.Entry{
		IterationID:     it.IterationID,
		ProjectRoot:     p.Root,
		Model:           it.Model,
		ScopeMode:       core.ScopeModeLabel(it.Scope),
		PromptUnits:     core.Len16(it.Prompt),
		PromptTokens:    tokens,
		ResponseUnits:   core.Len16(it.Response),
		ResponseSnippet: truncate(strings.TrimSpace(it.Response), snippetLength),
		CreatedAt:       it.CreatedAt,
	})
}
