// Package ui holds console interactions that are not full TUI programs.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// InteractiveApprover asks the user to type the table name before a
// destructive operation proceeds.
type InteractiveApprover struct {
	input  io.Reader
	output io.Writer
}

// NewInteractiveApprover prompts on stderr and reads the answer from stdin.
func NewInteractiveApprover() pgframe.Approver {
	return NewPromptApprover(os.Stdin, os.Stderr)
}

// NewPromptApprover prompts on output and reads the answer from input.
func NewPromptApprover(input io.Reader, output io.Writer) pgframe.Approver {
	return &InteractiveApprover{input: input, output: output}
}

// RequestApproval returns true only when the typed answer equals table.
// Cancelling ctx abandons the pending read.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, table string) (bool, error) {
	fmt.Fprintf(a.output, "\nWARNING: You are about to DROP the table '%s'\n", table)
	fmt.Fprintln(a.output, "This will permanently delete all rows in this table!")
	fmt.Fprintf(a.output, "\nTo confirm, type the table name '%s' and press Enter: ", table)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		input, err := bufio.NewReader(a.input).ReadString('\n')
		if err != nil && (err != io.EOF || input == "") {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == table {
			fmt.Fprintln(a.output, "✓ Confirmed.")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match table name '%s'. Operation cancelled.\n", input, table)
		return false, nil
	}
}

var _ pgframe.Approver = (*InteractiveApprover)(nil)
