package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventReloadCompleted, func(e DomainEvent) { got <- e })

	b.Publish(ReloadCompletedEvent{Generation: 3, Total: 12})

	select {
	case e := <-got:
		ev, ok := e.(ReloadCompletedEvent)
		require.True(t, ok, "unexpected event type %T", e)
		assert.Equal(t, uint64(3), ev.Generation)
		assert.Equal(t, 12, ev.Total)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestSubscribersOnlySeeTheirType(t *testing.T) {
	b := New()
	defer b.Close()

	var started, failed atomic.Int32
	b.Subscribe(EventReloadStarted, func(DomainEvent) { started.Add(1) })
	b.Subscribe(EventReloadFailed, func(DomainEvent) { failed.Add(1) })

	b.Publish(ReloadStartedEvent{Generation: 1})
	b.Publish(ReloadStartedEvent{Generation: 2})

	assert.Eventually(t, func() bool { return started.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), failed.Load())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	var first, second atomic.Int32
	unsubscribe := b.Subscribe(EventSortChanged, func(DomainEvent) { first.Add(1) })
	b.Subscribe(EventSortChanged, func(DomainEvent) { second.Add(1) })

	unsubscribe()
	b.Publish(SortChangedEvent{})

	require.Eventually(t, func() bool { return second.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	b := New()
	defer b.Close()

	var calls atomic.Int32
	b.Subscribe(EventMealSelected, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventMealSelected, func(DomainEvent) { calls.Add(1) })

	b.Publish(MealSelectedEvent{ID: "1"})
	b.Publish(MealSelectedEvent{ID: "2"})

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()

	var calls atomic.Int32
	b.Subscribe(EventConfigSaved, func(DomainEvent) { calls.Add(1) })
	b.Close()
	b.Close()

	b.Publish(ConfigSavedEvent{Path: "x"})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
