package main

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowConsumer finishes its current write after ctx is cancelled.
type slowConsumer struct {
	started  chan struct{}
	finished atomic.Bool
}

func (s *slowConsumer) Run(ctx context.Context) error {
	close(s.started)
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)
	s.finished.Store(true)
	return ctx.Err()
}

func TestStartConsumer_WaitBlocksUntilRunReturns(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	c := &slowConsumer{started: make(chan struct{})}
	startConsumer(ctx, &wg, c, logger)
	<-c.started

	cancel()
	wg.Wait()
	assert.True(t, c.finished.Load())
	assert.Empty(t, hook.AllEntries(), "cancellation is not an error")
}

type failingConsumer struct{}

func (failingConsumer) Run(context.Context) error { return assert.AnError }

func TestStartConsumer_LogsUnexpectedExit(t *testing.T) {
	logger, hook := test.NewNullLogger()

	var wg sync.WaitGroup
	startConsumer(context.Background(), &wg, failingConsumer{}, logger)
	wg.Wait()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "booking consumer stopped", hook.LastEntry().Message)
}
