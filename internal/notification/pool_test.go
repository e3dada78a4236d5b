package notification

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"realty-crm/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcNotifier func(ctx context.Context, userID, eventType string, payload Payload) bool

func (f funcNotifier) Notify(ctx context.Context, userID, eventType string, payload Payload) bool {
	return f(ctx, userID, eventType, payload)
}

func TestPool_DeliversAndDrainsOnClose(t *testing.T) {
	var delivered int32
	notifier := funcNotifier(func(ctx context.Context, userID, eventType string, payload Payload) bool {
		atomic.AddInt32(&delivered, 1)
		return true
	})
	p := NewPool(notifier, 16, 2, time.Second, logger.NewNoOpLogger())

	for i := 0; i < 10; i++ {
		require.True(t, p.Submit(Job{UserID: "user-1", EventType: "interest_confirmed"}))
	}

	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, int32(10), atomic.LoadInt32(&delivered))
}

func TestPool_RejectsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	notifier := funcNotifier(func(ctx context.Context, userID, eventType string, payload Payload) bool {
		started <- struct{}{}
		<-release
		return true
	})
	p := NewPool(notifier, 1, 1, 0, logger.NewNoOpLogger())

	require.True(t, p.Submit(Job{UserID: "a"}))
	<-started // the single worker is now busy
	require.True(t, p.Submit(Job{UserID: "b"}))
	assert.False(t, p.Submit(Job{UserID: "c"}), "queue of one is full")

	close(release)
	require.NoError(t, p.Close(context.Background()))
}

func TestPool_RejectsAfterClose(t *testing.T) {
	p := NewPool(funcNotifier(func(ctx context.Context, userID, eventType string, payload Payload) bool {
		return true
	}), 4, 1, 0, logger.NewNoOpLogger())

	require.NoError(t, p.Close(context.Background()))
	assert.False(t, p.Submit(Job{UserID: "a"}))
	assert.NoError(t, p.Close(context.Background()), "close is idempotent")
}

func TestPool_CloseHonoursContext(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	started := make(chan struct{})
	p := NewPool(funcNotifier(func(ctx context.Context, userID, eventType string, payload Payload) bool {
		once.Do(func() { close(started) })
		<-release
		return true
	}), 4, 1, 0, logger.NewNoOpLogger())

	require.True(t, p.Submit(Job{UserID: "a"}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, p.Close(context.Background()))
}

func TestPool_AppliesDeliveryTimeout(t *testing.T) {
	deadlines := make(chan bool, 1)
	p := NewPool(funcNotifier(func(ctx context.Context, userID, eventType string, payload Payload) bool {
		_, ok := ctx.Deadline()
		deadlines <- ok
		return true
	}), 1, 1, time.Second, logger.NewNoOpLogger())

	require.True(t, p.Submit(Job{UserID: "a"}))
	assert.True(t, <-deadlines)
	require.NoError(t, p.Close(context.Background()))
}
