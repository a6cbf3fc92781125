// ABOUTME: Scope commands restrict editing to a selection or the full document
// ABOUTME: Input that does not describe a valid selection falls back to full scope
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/models"
)

// documentKey is the point key used for selections made by offset.
const documentKey = "document"

var (
	scopeJSON       string
	scopeStart      int
	scopeEnd        int
	scopeAnchorKey  string
	scopeAnchorOff  int
	scopeAnchorType string
	scopeFocusKey   string
	scopeFocusOff   int
	scopeFocusType  string
	scopeBackward   bool
	scopeShowAsJSON bool
)

// NewScopeCmd creates the scope command group
func NewScopeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Show or change the editing scope",
		Long: `Show or change the editing scope.

The scope tells the model which part of the document to revise: the
full document, or a selection between an anchor and a focus point.`,
	}

	cmd.AddCommand(newScopeShowCmd())
	cmd.AddCommand(newScopeFullCmd())
	cmd.AddCommand(newScopeSetCmd())

	return cmd
}

func newScopeShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			scope := ws.Session.Scope()
			out := cmd.OutOrStdout()

			if scopeShowAsJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(scope)
			}

			fmt.Fprintf(out, "Mode: %s\n", cyan(core.ScopeModeLabel(scope)))
			fmt.Fprintf(out, "Location: %s\n", core.ScopeDescription(scope))
			if sel := scope.Selection; sel != nil {
				fmt.Fprintf(out, "Anchor: %s:%d (%s)\n", sel.AnchorKey, sel.AnchorOffset, sel.AnchorType)
				fmt.Fprintf(out, "Focus:  %s:%d (%s)\n", sel.FocusKey, sel.FocusOffset, sel.FocusType)
				if sel.IsBackward {
					fmt.Fprintln(out, "Backward: true")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&scopeShowAsJSON, "json", false, "Output the scope as JSON")

	return cmd
}

func newScopeFullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "full",
		Short: "Target the whole document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			ws.Session.SetFullScope()
			if err := ws.Save(); err != nil {
				return err
			}
			success(cmd, "Scope set to the full document")
			return nil
		},
	}
}

func newScopeSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Restrict the scope to a selection",
		Long: `Restrict the scope to a selection.

Give document offsets with --start/--end, explicit editor points with
--anchor-key/--focus-key, or a raw scope object with --json.

Examples:
  docright scope set --start 120 --end 480
  docright scope set --anchor-key 4 --anchor-offset 0 --focus-key 9 --focus-offset 12
  docright scope set --json '{"mode":"range","selection":{"anchorKey":"a","focusKey":"b"}}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			var raw any
			switch {
			case scopeJSON != "":
				raw = []byte(scopeJSON)
			case cmd.Flags().Changed("start") || cmd.Flags().Changed("end"):
				if scopeStart < 0 || scopeEnd < scopeStart {
					return fmt.Errorf("%w: [%d, %d)", core.ErrInvalidRange, scopeStart, scopeEnd)
				}
				raw = models.Scope{Mode: models.ScopeRange, Selection: &models.Selection{
					AnchorKey:    documentKey,
					AnchorOffset: scopeStart,
					FocusKey:     documentKey,
					FocusOffset:  scopeEnd,
				}}
			default:
				raw = models.Scope{Mode: models.ScopeRange, Selection: &models.Selection{
					AnchorKey:    scopeAnchorKey,
					AnchorOffset: scopeAnchorOff,
					AnchorType:   scopeAnchorType,
					FocusKey:     scopeFocusKey,
					FocusOffset:  scopeFocusOff,
					FocusType:    scopeFocusType,
					IsBackward:   scopeBackward,
				}}
			}

			scope := ws.Session.SetScope(raw)
			if err := ws.Save(); err != nil {
				return err
			}
			if !scope.IsRange() {
				warn(cmd, "No valid selection given; scope reset to the full document")
				return nil
			}
			success(cmd, "Scope set to %s", core.ScopeDescription(scope))
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeJSON, "json", "", "Raw scope JSON")
	cmd.Flags().IntVar(&scopeStart, "start", 0, "Selection start offset in the document")
	cmd.Flags().IntVar(&scopeEnd, "end", 0, "Selection end offset in the document")
	cmd.Flags().StringVar(&scopeAnchorKey, "anchor-key", "", "Anchor point key")
	cmd.Flags().IntVar(&scopeAnchorOff, "anchor-offset", 0, "Anchor point offset")
	cmd.Flags().StringVar(&scopeAnchorType, "anchor-type", "text", "Anchor point type")
	cmd.Flags().StringVar(&scopeFocusKey, "focus-key", "", "Focus point key")
	cmd.Flags().IntVar(&scopeFocusOff, "focus-offset", 0, "Focus point offset")
	cmd.Flags().StringVar(&scopeFocusType, "focus-type", "text", "Focus point type")
	cmd.Flags().BoolVar(&scopeBackward, "backward", false, "Selection runs from focus to anchor")
	cmd.MarkFlagsMutuallyExclusive("json", "start")
	cmd.MarkFlagsMutuallyExclusive("json", "anchor-key")
	cmd.MarkFlagsMutuallyExclusive("start", "anchor-key")

	return cmd
}
