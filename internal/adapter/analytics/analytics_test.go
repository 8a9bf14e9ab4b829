package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionActivityAnalyzer(t *testing.T) {
	t.Run("CanceledContextClosesStream", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		analyzer := NewSessionActivityAnalyzer("sc://localhost:15002")
		stream := analyzer.Do(ctx, []string{"/events/default.jsonl"})

		select {
		case activity, open := <-stream:
			require.False(t, open, "expected closed stream")
			assert.Zero(t, activity)
		case <-time.After(2 * time.Second):
			t.Fatal("stream not closed")
		}
	})
}
