package countdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestUntil(t *testing.T) {
	t.Parallel()
	deadline := mustParse(t, "2024-12-25T00:00:00Z")

	tests := []struct {
		name string
		now  string
		want Remaining
	}{
		{
			name: "one hour before",
			now:  "2024-12-24T23:00:00Z",
			want: Remaining{Days: 0, Hours: 1, Minutes: 0, Seconds: 0},
		},
		{
			name: "mixed units",
			now:  "2024-12-21T10:30:15Z",
			want: Remaining{Days: 3, Hours: 13, Minutes: 29, Seconds: 45},
		},
		{
			name: "one second before",
			now:  "2024-12-24T23:59:59Z",
			want: Remaining{Days: 0, Hours: 0, Minutes: 0, Seconds: 1},
		},
		{
			name: "exactly at deadline",
			now:  "2024-12-25T00:00:00Z",
			want: Remaining{Ended: true},
		},
		{
			name: "after deadline",
			now:  "2024-12-26T00:00:00Z",
			want: Remaining{Ended: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Until(deadline, mustParse(t, tt.now))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUntil_FloorsFractionalSeconds(t *testing.T) {
	t.Parallel()
	deadline := mustParse(t, "2024-12-25T00:00:00Z")
	now := deadline.Add(-1500 * time.Millisecond)

	// 1.5s remaining truncates to 1s - no rounding up
	got := Until(deadline, now)
	assert.Equal(t, Remaining{Seconds: 1}, got)
}

func TestRemainingString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "3d 13h 29m 45s", Remaining{Days: 3, Hours: 13, Minutes: 29, Seconds: 45}.String())
	assert.Equal(t, "0d 1h 0m 0s", Remaining{Hours: 1}.String())
	assert.Equal(t, "ended", Remaining{Ended: true}.String())
}

func TestRun_TicksImmediatelyAndStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan Remaining, 8)
	done := make(chan struct{})

	go func() {
		Run(ctx, time.Now().Add(time.Hour), func(r Remaining) {
			select {
			case ticks <- r:
			default:
			}
		})
		close(done)
	}()

	// The first tick is immediate, before any ticker fires.
	select {
	case r := <-ticks:
		assert.False(t, r.Ended)
	case <-time.After(time.Second):
		t.Fatal("no immediate tick")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestRun_IndependentCancellation(t *testing.T) {
	t.Parallel()
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()

	done1 := make(chan struct{})
	done2 := make(chan struct{})

	go func() {
		Run(ctx1, time.Now().Add(time.Hour), func(Remaining) {})
		close(done1)
	}()
	go func() {
		Run(ctx2, time.Now().Add(time.Hour), func(Remaining) {})
		close(done2)
	}()

	cancel1()
	select {
	case <-done1:
	case <-time.After(2 * time.Second):
		t.Fatal("first countdown did not stop")
	}

	// The second countdown keeps running after the first stops.
	select {
	case <-done2:
		t.Fatal("second countdown stopped with the first")
	case <-time.After(50 * time.Millisecond):
	}
}
