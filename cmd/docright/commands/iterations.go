// ABOUTME: Iterations commands list and show saved prompt/response snapshots
// ABOUTME: History queries the cross-project index in the user data directory
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/storage/sqlite"
)

// NewIterationsCmd creates the iterations command group
func NewIterationsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "iterations",
		Aliases: []string{"iter"},
		Short:   "List saved iterations",
		Long: `List the prompt/response snapshots saved under .docright/iterations,
newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			its, err := ws.Project.ListIterations()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(its)
			}
			if len(its) == 0 {
				fmt.Fprintln(out, "No iterations saved")
				return nil
			}
			for _, it := range its {
				fmt.Fprintf(out, "%s  %s  %s  %s\n",
					cyan(it.IterationID), it.Model, core.ScopeModeLabel(it.Scope), faint(formatTime(it.CreatedAt)))
				fmt.Fprintf(out, "    %s\n", truncate(oneLine(it.Response), 72))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.AddCommand(newIterationsShowCmd())
	cmd.AddCommand(newIterationsHistoryCmd())
	cmd.AddCommand(newIterationsExportCmd())

	return cmd
}

func newIterationsShowCmd() *cobra.Command {
	var promptOnly, responseOnly bool

	cmd := &cobra.Command{
		Use:   "show <iteration-id>",
		Short: "Show one iteration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			it, err := ws.Project.LoadIteration(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case promptOnly:
				fmt.Fprintln(out, it.Prompt)
			case responseOnly:
				fmt.Fprintln(out, it.Response)
			default:
				fmt.Fprintf(out, "Iteration: %s\n", it.IterationID)
				fmt.Fprintf(out, "Model:     %s\n", it.Model)
				fmt.Fprintf(out, "Scope:     %s\n", core.ScopeModeLabel(it.Scope))
				fmt.Fprintf(out, "Created:   %s\n", it.CreatedAt.Local().Format(time.RFC1123))
				fmt.Fprintf(out, "\n%s\n%s\n", faint("--- response ---"), it.Response)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&promptOnly, "prompt", false, "Print only the prompt")
	cmd.Flags().BoolVar(&responseOnly, "response", false, "Print only the response")
	cmd.MarkFlagsMutuallyExclusive("prompt", "response")

	return cmd
}

func newIterationsHistoryCmd() *cobra.Command {
	var (
		all   bool
		model string
		limit int
		since string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the iteration history index",
		Long: `Query the history database indexing every saved iteration.
By default only iterations of the current project are listed.`,
		Example: `  docright iterations history --limit 5
  docright iterations history --all --model gpt-4o --since 168h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(limit, "limit"); err != nil {
				return err
			}
			filter := sqlite.Filter{Model: model, Limit: limit}
			if since != "" {
				d, err := time.ParseDuration(since)
				if err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
				filter.Since = time.Now().Add(-d)
			}
			if !all {
				ws, err := openWorkspace(cmd)
				if err != nil {
					return err
				}
				filter.ProjectRoot = ws.Project.Root
			}

			db, err := sqlite.Open(sqlite.DefaultDBPath())
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer func() { _ = db.Close() }()

			entries, err := sqlite.NewHistoryStore(db).List(filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %s  %d units  %d tokens  %s\n",
					cyan(e.IterationID), e.Model, e.ScopeMode, e.PromptUnits, e.PromptTokens, faint(formatTime(e.CreatedAt)))
				if all {
					fmt.Fprintf(out, "    %s\n", faint(e.ProjectRoot))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include every project")
	cmd.Flags().StringVar(&model, "model", "", "Only iterations for this model")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries")
	cmd.Flags().StringVar(&since, "since", "", "Only entries newer than this duration (e.g. 24h)")

	return cmd
}

func newIterationsExportCmd() *cobra.Command {
	var (
		all    bool
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the iteration history",
		Long: `Export history entries as YAML, Markdown or JSON.
By default only iterations of the current project are exported.`,
		Example: `  docright iterations export --format markdown --out history.md
  docright iterations export --all --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			write, ok := exportWriters[format]
			if !ok {
				return fmt.Errorf("unsupported format: %s (use yaml, markdown or json)", format)
			}
			var filter sqlite.Filter
			if !all {
				ws, err := openWorkspace(cmd)
				if err != nil {
					return err
				}
				filter.ProjectRoot = ws.Project.Root
			}

			db, err := sqlite.Open(sqlite.DefaultDBPath())
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer func() { _ = db.Close() }()

			data, err := sqlite.NewHistoryStore(db).Export(filter)
			if err != nil {
				return err
			}
			w, closeOut, err := outputWriter(cmd, out)
			if err != nil {
				return err
			}
			if err := write(w, data); err != nil {
				_ = closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}
			if out != "" {
				success(cmd, "Exported %d iterations to %s", len(data.Iterations), out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include every project")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml, markdown or json")
	cmd.Flags().StringVar(&out, "out", "", "Write to a file instead of stdout")

	return cmd
}

var exportWriters = map[string]func(io.Writer, *sqlite.ExportData) error{
	"yaml":     sqlite.WriteYAML,
	"yml":      sqlite.WriteYAML,
	"markdown": sqlite.WriteMarkdown,
	"md":       sqlite.WriteMarkdown,
	"json":     sqlite.WriteJSON,
}
