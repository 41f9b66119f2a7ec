package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(out, nil))

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello")

	require.Contains(t, out.String(), "hello")
}

func TestFromContext_MissingLoggerPanics(t *testing.T) {
	t.Parallel()

	// A context without a logger is a wiring bug, not a runtime condition
	// to degrade around, so FromContext must fail fast.
	require.PanicsWithValue(t, "ctxlog: logger missing from context", func() {
		FromContext(context.Background())
	})
}
