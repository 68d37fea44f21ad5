// Package jobs holds the background jobs dispatched onto the queue.
package jobs

import (
	"fmt"

	"github.com/chenweihao/weishop/config"
	"github.com/chenweihao/weishop/pkg/logger"
	"github.com/chenweihao/weishop/pkg/notification"
)

// OrderNotificationJob tells the back office about an order event. It
// runs on the queue so the HTTP request never waits on SMTP or a
// webhook. Channels are config-driven: ADMIN_EMAIL enables mail,
// ORDER_WEBHOOK_URL enables the webhook.
type OrderNotificationJob struct {
	Kind        string  `json:"kind"`
	OrderRef    string  `json:"order_ref"`
	TotalAmount float64 `json:"total_amount"`
}

// Handle implements queue.Job.
func (j *OrderNotificationJob) Handle() error {
	logger.Info("order notification",
		"kind", j.Kind,
		"order_ref", j.OrderRef,
		"total_amount", j.TotalAmount,
	)

	if len(j.Via()) == 0 {
		return nil
	}
	if errs := notification.Send(config.Get("ADMIN_EMAIL", ""), j); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Via implements notification.Notification.
func (j *OrderNotificationJob) Via() []string {
	var channels []string
	if config.Get("ADMIN_EMAIL", "") != "" {
		channels = append(channels, "mail")
	}
	if config.Get("ORDER_WEBHOOK_URL", "") != "" {
		channels = append(channels, "webhook")
	}
	return channels
}

// ToMail implements notification.Mailable.
func (j *OrderNotificationJob) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("[weishop] %s: %s", j.Kind, j.OrderRef),
		Body: fmt.Sprintf("<p>Order <b>%s</b>: %s, total %.2f</p>",
			j.OrderRef, j.Kind, j.TotalAmount),
	}
}

// ToWebhook implements notification.Webhookable.
func (j *OrderNotificationJob) ToWebhook() notification.WebhookData {
	return notification.WebhookData{
		URL:     config.Get("ORDER_WEBHOOK_URL", ""),
		Payload: j,
	}
}
