package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/bazaar/pkg/mail"
)

// OrderConfirmationJob emails the buyer after an order commits. It carries
// everything it needs so workers never touch the database.
type OrderConfirmationJob struct {
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
	ItemsCount  int     `json:"items_count"`
}

func (j *OrderConfirmationJob) Handle() error {
	subject := fmt.Sprintf("Order %s confirmed", j.OrderNumber)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> has been received.</p>"+
			"<p>%d item(s), total <strong>%.2f</strong>.</p>"+
			"<p>We will let you know when it ships.</p>",
		j.Name, j.OrderNumber, j.ItemsCount, j.Total)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour order %s has been received.\n%d item(s), total %.2f.\n\nWe will let you know when it ships.",
		j.Name, j.OrderNumber, j.ItemsCount, j.Total)

	return mail.To(j.Email).Subject(subject).Body(body).Text(text).Send()
}
