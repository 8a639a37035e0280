//go:build unit

package notify

import (
	"sync"
	"testing"

	"go-store-builder/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyThatStore(t *testing.T) {
	h := NewHub(logger.Nop(), 4)
	a := h.Subscribe(1)
	b := h.Subscribe(2)

	h.Publish(1, EventPageUpdated, map[string]int64{"pageId": 9})

	require.Len(t, a.Events(), 1)
	ev := <-a.Events()
	assert.Equal(t, EventPageUpdated, ev.Type)
	assert.Equal(t, int64(1), ev.StoreID)
	assert.NotEmpty(t, ev.ID)
	assert.Len(t, b.Events(), 0)
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(logger.Nop(), 1)
	s := h.Subscribe(1)

	h.Publish(1, EventOrderCreated, nil)
	h.Publish(1, EventOrderCreated, nil)

	assert.Len(t, s.Events(), 1)
}

func TestHub_UnsubscribeClosesAndIsIdempotent(t *testing.T) {
	h := NewHub(logger.Nop(), 0)
	s := h.Subscribe(3)
	assert.Equal(t, 1, h.Subscribers(3))

	h.Unsubscribe(s)
	h.Unsubscribe(s)

	_, open := <-s.Events()
	assert.False(t, open)
	assert.Equal(t, 0, h.Subscribers(3))

	// Publishing to a store without subscribers is a no-op.
	h.Publish(3, EventPageUpdated, nil)
}

func TestHub_ConcurrentUse(t *testing.T) {
	h := NewHub(logger.Nop(), 8)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := h.Subscribe(1)
			h.Unsubscribe(s)
		}()
		go func() {
			defer wg.Done()
			h.Publish(1, EventPageUpdated, nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.Subscribers(1))
}
