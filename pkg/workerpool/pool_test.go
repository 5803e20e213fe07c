package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTasks(t *testing.T) {
	p := New(4)

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		err := p.Submit(func() {
			atomic.AddInt64(&count, 1)
			wg.Done()
		})
		require.NoError(t, err)
	}

	wg.Wait()
	p.Shutdown()
	assert.Equal(t, int64(8), atomic.LoadInt64(&count))
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(1)
	p.Shutdown()

	err := p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestBackpressure(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})

	// Occupy the single worker and wait until it is actually running.
	require.NoError(t, p.Submit(func() { close(started); <-block }))
	<-started

	// Fill the 2× buffer, then the pool must push back.
	require.NoError(t, p.Submit(func() {}))
	require.NoError(t, p.Submit(func() {}))
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolFull)

	close(block)
}
