// ABOUTME: Root command, global flags and shared helpers for the docright CLI
// ABOUTME: Global flags select the project directory and output verbosity
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/config"
	"github.com/harper/docright/internal/logging"
	"github.com/harper/docright/internal/workspace"
)

const banner = `
██████╗  ██████╗  ██████╗██████╗ ██╗ ██████╗ ██╗  ██╗████████╗
██╔══██╗██╔═══██╗██╔════╝██╔══██╗██║██╔════╝ ██║  ██║╚══██╔══╝
██║  ██║██║   ██║██║     ██████╔╝██║██║  ███╗███████║   ██║
██║  ██║██║   ██║██║     ██╔══██╗██║██║   ██║██╔══██║   ██║
██████╔╝╚██████╔╝╚██████╗██║  ██║██║╚██████╔╝██║  ██║   ██║
╚═════╝  ╚═════╝  ╚═════╝╚═╝  ╚═╝╚═╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝`

var (
	workDir string
	verbose bool
	quiet   bool
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docright",
		Short: "Annotate documents with LLM edit callouts",
		Long: banner + `

Attach edit instructions ("callouts") to ranges of a document, add
document-wide instructions and reference material, then build a single
XML prompt for a language model and apply its revisions.

Callout ranges follow the text as it is edited, so instructions stay
attached to the words they describe.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded := config.LoadEnvFiles()
			if verbose {
				for _, f := range loaded {
					newLogger(cmd).Debug("loaded env file", "path", f)
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "Project directory (searched upward for .docright)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewCalloutCmd())
	cmd.AddCommand(NewContextCmd())
	cmd.AddCommand(NewScopeCmd())
	cmd.AddCommand(NewEditCmd())
	cmd.AddCommand(NewPromptCmd())
	cmd.AddCommand(NewReceiveCmd())
	cmd.AddCommand(NewSendCmd())
	cmd.AddCommand(NewIterationsCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger returns a logger on the command's stderr honoring -v and -q.
func newLogger(cmd *cobra.Command) *log.Logger {
	if quiet {
		return logging.Quiet(cmd.ErrOrStderr())
	}
	return logging.New(cmd.ErrOrStderr(), verbose)
}

// openWorkspace loads the project containing --dir.
func openWorkspace(cmd *cobra.Command) (*workspace.Workspace, error) {
	ws, err := workspace.Open(workDir, newLogger(cmd))
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// success prints a green status line unless --quiet.
func success(cmd *cobra.Command, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// warn prints a yellow warning to stderr unless --quiet.
func warn(cmd *cobra.Command, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", yellow("!"), fmt.Sprintf(format, args...))
}
