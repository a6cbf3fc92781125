// ABOUTME: Edit command changes the document and keeps callouts aligned
// ABOUTME: Accepts a single replacement or a whole new version of the text
package commands

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/models"
)

var (
	editOffset int
	editLength int
	editText   string
	editFile   string
)

// NewEditCmd creates the edit command
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the document text",
		Long: `Edit the document text and move callouts with it.

Either replace --length code units at --offset with --text, or give a
new version of the whole document with --file (use - for stdin); the
minimal change between the two versions is applied.

Callouts before an edit stay put, callouts after it shift, callouts the
edit touches grow or shrink, and callouts left empty are removed. A
callout that an edit pushes into an earlier callout is removed too.

Examples:
  docright edit --offset 0 --length 5 --text "Howdy"
  docright edit --file revised.txt
  pbpaste | docright edit --file -`,
		Args: cobra.NoArgs,
		RunE: runEdit,
	}

	cmd.Flags().IntVar(&editOffset, "offset", 0, "Start of the replaced range (UTF-16 code units)")
	cmd.Flags().IntVar(&editLength, "length", 0, "Length of the replaced range")
	cmd.Flags().StringVar(&editText, "text", "", "Replacement text")
	cmd.Flags().StringVar(&editFile, "file", "", "New document version (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("file", "offset")
	cmd.MarkFlagsMutuallyExclusive("file", "length")
	cmd.MarkFlagsMutuallyExclusive("file", "text")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if editFile == "" && !flags.Changed("offset") && !flags.Changed("length") && !flags.Changed("text") {
		return fmt.Errorf("nothing to edit: use --offset/--length/--text or --file")
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	before := ws.Session.InlineCallouts()

	var (
		changed bool
		change  models.TextChange
	)
	if editFile != "" {
		text, err := readInput(cmd, editFile)
		if err != nil {
			return err
		}
		change, _ = core.DiffChange(ws.Session.Text(), text)
		changed, err = ws.Session.ReplaceText(text)
		if err != nil {
			return err
		}
	} else {
		change = models.TextChange{RangeOffset: editOffset, RangeLength: editLength, Text: editText}
		changed, err = ws.Session.ApplyChanges([]models.TextChange{change})
		if err != nil {
			return err
		}
	}

	if err := ws.Save(); err != nil {
		return err
	}

	success(cmd, "Document updated (%d code units)", core.Len16(ws.Session.Text()))
	if changed {
		after := calloutIDs(ws.Session.InlineCallouts())
		for _, c := range before {
			if !slices.Contains(after, c.ID) {
				warn(cmd, "Removed %s: %s", c.ID, removalReason(c, change))
			}
		}
		success(cmd, "Callout ranges adjusted")
	}
	return nil
}

// removalReason tells a callout whose own text was deleted apart from one
// that grew into an earlier callout and was dropped to keep ranges disjoint.
func removalReason(c models.InlineCallout, change models.TextChange) string {
	alone, _ := core.ApplyOffsetChanges([]models.OffsetRange{c.OffsetRange}, []models.TextChange{change})
	if len(alone) == 0 {
		return "its text was deleted"
	}
	return "the edit merged it into an earlier callout"
}

func calloutIDs(callouts []models.InlineCallout) []string {
	ids := make([]string, len(callouts))
	for i, c := range callouts {
		ids[i] = c.ID
	}
	return ids
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
