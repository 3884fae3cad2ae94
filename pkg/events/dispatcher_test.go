package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	calls    int
	subjects []string
	done     chan struct{}
}

func newRecordingPublisher(failures int) *recordingPublisher {
	return &recordingPublisher{failures: failures, done: make(chan struct{}, 16)}
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return errors.New("broker unavailable")
	}
	p.subjects = append(p.subjects, subject)
	p.done <- struct{}{}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) snapshot() (int, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls, append([]string(nil), p.subjects...)
}

func waitDelivered(t *testing.T, p *recordingPublisher) {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestDispatcherPublishes(t *testing.T) {
	pub := newRecordingPublisher(0)
	d := NewDispatcher(pub, DispatcherConfig{Workers: 2})
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Dispatch(Event{ID: "1", Subject: "inventory.item.created"}))
	waitDelivered(t, pub)

	_, subjects := pub.snapshot()
	assert.Equal(t, []string{"inventory.item.created"}, subjects)
}

func TestDispatcherRetriesFailedPublish(t *testing.T) {
	pub := newRecordingPublisher(2)
	d := NewDispatcher(pub, DispatcherConfig{MaxRetries: 3, RetryDelay: 10 * time.Millisecond})
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Dispatch(Event{ID: "1", Subject: "inventory.item.created"}))
	waitDelivered(t, pub)

	calls, _ := pub.snapshot()
	assert.Equal(t, 3, calls)
}

func TestDispatcherRequiresStart(t *testing.T) {
	d := NewDispatcher(newRecordingPublisher(0), DispatcherConfig{})
	require.Error(t, d.Dispatch(Event{ID: "1"}))
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(newRecordingPublisher(0), DispatcherConfig{BufferSize: 1})
	d.mu.Lock()
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.started = true
	d.mu.Unlock()
	defer d.cancel()

	require.NoError(t, d.Dispatch(Event{ID: "1"}))
	assert.ErrorIs(t, d.Dispatch(Event{ID: "2"}), ErrQueueFull)
}

func TestDispatcherRejectsAfterStop(t *testing.T) {
	d := NewDispatcher(newRecordingPublisher(0), DispatcherConfig{})
	d.Start(context.Background())
	d.Stop()
	assert.Error(t, d.Dispatch(Event{ID: "1"}))
}
