// Package notify defines the notification sink the orchestrator reports
// through, plus the console implementation used by the CLI.
package notify

import (
	"io"
	"os"

	"github.com/turkyfun/stakectl/internal/output"
)

// Sink receives user-facing outcome notifications from the orchestrator.
// Implementations must not block; the orchestrator calls them inline.
type Sink interface {
	// ApprovalSucceeded reports a confirmed allowance approval.
	ApprovalSucceeded()

	// StakeSucceeded reports a confirmed stake of the given token amount.
	StakeSucceeded(amount string)

	// UnstakeSucceeded reports a confirmed withdrawal.
	UnstakeSucceeded()

	// TransactionFailed reports a terminal failure with a short context
	// string naming the action that failed.
	TransactionFailed(context string)
}

// Console writes notifications to stdout/stderr.
type Console struct {
	out io.Writer
	err io.Writer
}

// NewConsole creates a console sink writing to the given writers.
// Nil writers default to stdout and stderr.
func NewConsole(out, errOut io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Console{out: out, err: errOut}
}

// ApprovalSucceeded prints the approval success message.
func (c *Console) ApprovalSucceeded() {
	output.Success(c.out, "Approval successful - you may now stake your tokens")
}

// StakeSucceeded prints the stake success message with the reward amount.
func (c *Console) StakeSucceeded(amount string) {
	output.Successf(c.out, "Stake successful - you received %s reward tokens", amount)
}

// UnstakeSucceeded prints the unstake success message.
func (c *Console) UnstakeSucceeded() {
	output.Success(c.out, "Unstake successful")
}

// TransactionFailed prints the failure message.
func (c *Console) TransactionFailed(context string) {
	output.Warnf(c.err, "Transaction failed: %s", context)
}

// Null discards all notifications. Useful in tests and scripted runs.
type Null struct{}

// ApprovalSucceeded is a no-op.
func (Null) ApprovalSucceeded() {}

// StakeSucceeded is a no-op.
func (Null) StakeSucceeded(string) {}

// UnstakeSucceeded is a no-op.
func (Null) UnstakeSucceeded() {}

// TransactionFailed is a no-op.
func (Null) TransactionFailed(string) {}

// Compile-time interface checks
var (
	_ Sink = (*Console)(nil)
	_ Sink = Null{}
)
