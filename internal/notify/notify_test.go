package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleWritesToCorrectStreams(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	sink := NewConsole(&out, &errOut)

	sink.ApprovalSucceeded()
	sink.StakeSucceeded("5")
	sink.UnstakeSucceeded()
	assert.Contains(t, out.String(), "Approval successful")
	assert.Contains(t, out.String(), "received 5 reward tokens")
	assert.Contains(t, out.String(), "Unstake successful")
	assert.Empty(t, errOut.String())

	sink.TransactionFailed("mint and stake")
	assert.Contains(t, errOut.String(), "Transaction failed: mint and stake")
}

func TestNullSinkIsSilent(t *testing.T) {
	t.Parallel()
	var sink Sink = Null{}

	// Must not panic or produce output
	sink.ApprovalSucceeded()
	sink.StakeSucceeded("1")
	sink.UnstakeSucceeded()
	sink.TransactionFailed("anything")
}
