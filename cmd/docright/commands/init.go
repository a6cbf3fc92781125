// ABOUTME: Init command creates the .docright project layout
// ABOUTME: Existing files are kept; an initialized project is reported as an error
package commands

import (
	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/workspace"
)

var initDocument string

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a docright project",
		Long: `Create a .docright/ directory in the project directory with default
settings, prompt templates and empty callout, context and scope files.

Examples:
  docright init
  docright init --document letter.md
  docright -C ~/drafts/proposal init`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().StringVar(&initDocument, "document", "", "Document file relative to the project (default: document.txt)")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	ws, err := workspace.Init(workDir, initDocument, newLogger(cmd))
	if err != nil {
		return err
	}
	path, err := ws.Project.DocumentPath()
	if err != nil {
		return err
	}
	success(cmd, "Initialized docright project in %s", ws.Project.Dir())
	success(cmd, "Document: %s", path)
	return nil
}
