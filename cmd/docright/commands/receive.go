// ABOUTME: Receive command reassembles a prompt from JSON-lines transport messages
// ABOUTME: Chunks are buffered by index; acknowledgements can be written for the host
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/transport"
)

var (
	receiveOut string
	receiveAck bool
)

// NewReceiveCmd creates the receive command
func NewReceiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Reassemble a prompt from transport messages on stdin",
		Long: `Read JSON-lines transport messages from stdin and write the last
complete prompt.

With --ack, acknowledgements are written to stderr as JSON lines:
llm.promptReceived for each completed prompt and llm.requestPrompt when
a transfer ends with chunks missing.

Examples:
  docright prompt --messages | docright receive
  docright receive --out prompt.txt < messages.jsonl`,
		Args: cobra.NoArgs,
		RunE: runReceive,
	}

	cmd.Flags().StringVar(&receiveOut, "out", "", "Write the prompt to a file")
	cmd.Flags().BoolVar(&receiveAck, "ack", false, "Write acknowledgements to stderr")

	return cmd
}

func runReceive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger(cmd)
	assembler := transport.NewAssembler()
	acks := transport.NewLineChannel(cmd.ErrOrStderr())

	var (
		prompt   *string
		received int
	)
	err := transport.ReadOutbound(ctx, cmd.InOrStdin(), func(msg transport.Outbound) error {
		result, err := assembler.Accept(msg)
		if errors.Is(err, transport.ErrIncompleteTransfer) {
			logger.Warn("transfer incomplete", "err", err)
			if receiveAck {
				return acks.Send(ctx, transport.RequestPrompt{})
			}
			return nil
		}
		if err != nil {
			return err
		}
		if result == nil {
			return nil
		}

		p := result.Prompt
		prompt = &p
		received++
		logger.Debug("prompt received", "id", result.ID, "length", core.Len16(p))
		if receiveAck && result.ID != 0 {
			return acks.Send(ctx, transport.PromptReceived{ID: result.ID, Length: core.Len16(p)})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if prompt == nil {
		if assembler.Pending() {
			return fmt.Errorf("%w: stream ended mid-transfer", transport.ErrIncompleteTransfer)
		}
		return fmt.Errorf("no prompt received")
	}

	w, closeOut, err := outputWriter(cmd, receiveOut)
	if err != nil {
		return err
	}
	defer closeOut()
	if _, err := io.WriteString(w, *prompt); err != nil {
		return err
	}
	if receiveOut == "" {
		fmt.Fprintln(w)
	}
	return nil
}
