package commands

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type warmDocumentCommand struct {
	Key string
}

func (warmDocumentCommand) Type() string { return "mdx.test.warm_document" }

func (c warmDocumentCommand) Validate() error {
	if c.Key == "" {
		return errors.New("key required")
	}
	return nil
}

type slowWarmCommand struct{}

func (slowWarmCommand) Type() string { return "mdx.test.slow_warm" }

func (slowWarmCommand) Validate() error { return nil }

func TestDispatchedHandlerRetriesTransientCompileFailure(t *testing.T) {
	var attempts atomic.Int32
	warmed := make(chan string, 1)
	handler := NewHandler(func(_ context.Context, msg warmDocumentCommand) error {
		if attempts.Add(1) == 1 {
			return errors.New("highlighter unavailable")
		}
		warmed <- msg.Key
		return nil
	}, WithTimeout[warmDocumentCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	require.NoError(t, dispatcher.Dispatch(context.Background(), warmDocumentCommand{Key: "guide.mdx"}))
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, "guide.mdx", <-warmed)
}

func TestDispatchedHandlerSurfacesWrappedFailure(t *testing.T) {
	var attempts atomic.Int32
	handler := NewHandler(func(context.Context, warmDocumentCommand) error {
		attempts.Add(1)
		return errors.New("source unreadable")
	}, WithTimeout[warmDocumentCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), warmDocumentCommand{Key: "broken.mdx"})
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Contains(t, err.Error(), "source unreadable")
}

func TestHandlerTimeoutIsReportedAsCommandError(t *testing.T) {
	handler := NewHandler(func(ctx context.Context, _ slowWarmCommand) error {
		<-ctx.Done()
		return ctx.Err()
	}, WithTimeout[slowWarmCommand](10*time.Millisecond))

	err := handler.Execute(context.Background(), slowWarmCommand{})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryCommand))
	assert.Contains(t, err.Error(), "deadline exceeded")
}
