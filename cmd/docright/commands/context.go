// ABOUTME: Context commands manage external references surfaced to the model
// ABOUTME: Items carry a name, a path and an optional description
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/models"
)

var (
	contextName        string
	contextPath        string
	contextDescription string
)

// NewContextCmd creates the context command group
func NewContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage context references",
		Long: `Manage context references.

Context items name external documents the model should take into
account. They are listed in a <context> block of the prompt.`,
	}

	cmd.AddCommand(newContextAddCmd())
	cmd.AddCommand(newContextListCmd())
	cmd.AddCommand(newContextRemoveCmd())

	return cmd
}

func newContextAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a context reference",
		Long: `Add a context reference.

Examples:
  docright context add --name "Style guide" --path docs/style.md
  docright context add --name Brief --path brief.pdf --description "Client brief"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			item, err := ws.Session.AddContext(models.ContextItem{
				Name:        contextName,
				Path:        contextPath,
				Description: contextDescription,
			})
			if err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			success(cmd, "Added context %s (%s)", cyan(item.Name), item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextName, "name", "", "Reference name")
	cmd.Flags().StringVar(&contextPath, "path", "", "Path or URL of the referenced document")
	cmd.Flags().StringVar(&contextDescription, "description", "", "Optional description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newContextListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List context references",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			items := ws.Session.Contexts()
			if len(items) == 0 {
				fmt.Fprintln(out, "No context items")
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "%s  %s  %s\n", cyan(item.Name), item.Path, faint(item.ID))
				if item.Description != "" {
					fmt.Fprintf(out, "    %s\n", truncate(item.Description, 80))
				}
			}
			return nil
		},
	}
}

func newContextRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|name>",
		Aliases: []string{"rm"},
		Short:   "Remove a context reference",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			if err := ws.Session.RemoveContext(args[0]); err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			success(cmd, "Removed context %s", args[0])
			return nil
		},
	}
}
