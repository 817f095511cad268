package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// txTimeout bounds a mutating flow: user confirmation plus block inclusion.
const txTimeout = 5 * time.Minute

// readTimeout bounds read-only status queries.
const readTimeout = 30 * time.Second

// contextWithTimeout returns a timeout context rooted in the command context.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, d)
}
