package jobs

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/bazaar/pkg/notification"
)

// LowStockAlertJob warns the store operators on Slack when a product drops
// to or below the low-stock threshold.
type LowStockAlertJob struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}

func (j *LowStockAlertJob) Handle() error {
	errs := notification.Send("", &lowStockNotice{job: j})
	return errors.Join(errs...)
}

type lowStockNotice struct {
	job *LowStockAlertJob
}

func (n *lowStockNotice) Via() []string { return []string{"slack"} }

func (n *lowStockNotice) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Low stock: '%s' is down to %d unit(s)", n.job.ProductName, n.job.Stock),
		Attachments: []notification.SlackAttachment{{
			Color:  "warning",
			Title:  n.job.ProductName,
			Text:   fmt.Sprintf("product #%d, %d left", n.job.ProductID, n.job.Stock),
			Footer: "bazaar inventory",
		}},
	}
}
