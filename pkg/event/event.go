// Package event provides the in-process event dispatcher.
//
// Services fire domain events ("order.placed", "product.low_stock") and
// listeners registered at boot react to them. Fire runs listeners inline;
// FireAsync hands them to a bounded worker pool so a slow listener never
// blocks the request path.
package event

import (
	"sync"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/workerpool"
)

// Handler receives the event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}

	poolOnce sync.Once
	pool     *workerpool.Pool
)

func asyncPool() *workerpool.Pool {
	poolOnce.Do(func() {
		pool = workerpool.New(16)
	})
	return pool
}

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event through the shared worker pool and returns
// immediately. If the pool is saturated the listener runs inline instead of
// being dropped.
func FireAsync(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h := h
		if err := asyncPool().Submit(func() { h(payload) }); err != nil {
			logger.Warn("event: pool saturated, running listener inline", "event", event)
			h(payload)
		}
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
