// ABOUTME: Callout commands manage inline and overall edit instructions
// ABOUTME: Inline callouts cover [start, end) in UTF-16 code units of the document
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/core"
)

var calloutListJSON bool

// NewCalloutCmd creates the callout command group
func NewCalloutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "callout",
		Short: "Manage edit callouts",
		Long: `Manage edit callouts.

Inline callouts attach an instruction to a range of the document.
Overall callouts apply to the whole document or the active scope.`,
	}

	cmd.AddCommand(newCalloutAddCmd())
	cmd.AddCommand(newCalloutOverallCmd())
	cmd.AddCommand(newCalloutListCmd())
	cmd.AddCommand(newCalloutRemoveCmd())
	cmd.AddCommand(newCalloutClearCmd())

	return cmd
}

func newCalloutAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <start> <end> <instruction>",
		Short: "Attach an instruction to a text range",
		Long: `Attach an instruction to the document range [start, end).

Offsets count UTF-16 code units, so most characters count as one and
emoji or other astral characters count as two.

Examples:
  docright callout add 0 5 "Capitalize this"
  docright callout add 120 180 make this sentence shorter`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseOffset(args[0], "start")
			if err != nil {
				return err
			}
			end, err := parseOffset(args[1], "end")
			if err != nil {
				return err
			}

			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			c, err := ws.Session.AddInlineCallout(start, end, strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			success(cmd, "Added %s [%d, %d) %q", cyan(c.ID), c.StartOffset, c.EndOffset, core.BuildSnippet(c.Text))
			return nil
		},
	}
}

func newCalloutOverallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overall <instruction>",
		Short: "Add a document-wide instruction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			c, err := ws.Session.AddOverallCallout(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			success(cmd, "Added %s", cyan(c.ID))
			return nil
		},
	}
}

func newCalloutListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List callouts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			state := ws.Session.State()

			if calloutListJSON {
				state.Inline = ws.Session.InlineCallouts()
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(state)
			}

			if len(state.Inline) == 0 && len(state.Overall) == 0 {
				fmt.Fprintln(out, "No callouts")
				return nil
			}
			for _, c := range ws.Session.InlineCallouts() {
				fmt.Fprintf(out, "%-10s %s %-42s %s\n",
					cyan(c.ID),
					faint(fmt.Sprintf("[%d, %d)", c.StartOffset, c.EndOffset)),
					fmt.Sprintf("%q", core.BuildSnippet(c.Text)),
					truncate(c.Instruction, 60))
			}
			for _, c := range state.Overall {
				fmt.Fprintf(out, "%-10s %s\n", cyan(c.ID), truncate(c.Instruction, 100))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&calloutListJSON, "json", false, "Output callouts as JSON")

	return cmd
}

func newCalloutRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove callouts by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := ws.Session.RemoveCallout(id); err != nil {
					return err
				}
			}
			if err := ws.Save(); err != nil {
				return err
			}

			success(cmd, "Removed %s", strings.Join(args, ", "))
			return nil
		},
	}
}

func newCalloutClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every inline callout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			n := ws.Session.ClearInlineCallouts()
			if err := ws.Save(); err != nil {
				return err
			}

			success(cmd, "Cleared %d inline callout(s)", n)
			return nil
		},
	}
}
