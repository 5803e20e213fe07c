package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/sse"
)

// SSE fallback for the order feed, for dashboards behind proxies that do
// not speak WebSocket.

var (
	sseMu   sync.Mutex
	sseSubs = map[chan []byte]struct{}{}
)

func sseSubscribe() chan []byte {
	ch := make(chan []byte, 16)
	sseMu.Lock()
	sseSubs[ch] = struct{}{}
	sseMu.Unlock()
	return ch
}

func sseUnsubscribe(ch chan []byte) {
	sseMu.Lock()
	delete(sseSubs, ch)
	sseMu.Unlock()
}

// ssePublish fans a payload out to every SSE subscriber, dropping it for
// slow consumers instead of blocking.
func ssePublish(data []byte) {
	sseMu.Lock()
	defer sseMu.Unlock()
	for ch := range sseSubs {
		select {
		case ch <- data:
		default:
		}
	}
}

// StreamOrders serves the order feed as Server-Sent Events until the client
// disconnects. Heartbeat comments keep idle proxies from closing the stream.
func StreamOrders(w http.ResponseWriter, r *http.Request) {
	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	ch := sseSubscribe()
	defer sseUnsubscribe(ch)

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			stream.Comment("keepalive")
		case data := <-ch:
			stream.Send("order.placed", json.RawMessage(data)) //nolint:errcheck
		}
		if stream.IsClosed() {
			return
		}
	}
}
