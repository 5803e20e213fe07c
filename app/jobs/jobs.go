// Package jobs defines the queued background jobs. Register must be called
// once at boot so workers can deserialize job payloads by type name.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/bazaar/pkg/queue"
)

// Register makes every job type known to the queue.
func Register() {
	queue.Register(fmt.Sprintf("%T", &OrderConfirmationJob{}), func() queue.Job {
		return &OrderConfirmationJob{}
	})
	queue.Register(fmt.Sprintf("%T", &LowStockAlertJob{}), func() queue.Job {
		return &LowStockAlertJob{}
	})
}
