// Package events names the order lifecycle events and wires their
// listeners: the admin live order feed, the statistics cache and the
// notification queue.
package events

import (
	"encoding/json"
	"time"

	"github.com/chenweihao/weishop/app/jobs"
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/cache"
	"github.com/chenweihao/weishop/pkg/event"
	"github.com/chenweihao/weishop/pkg/logger"
	"github.com/chenweihao/weishop/pkg/queue"
	"github.com/chenweihao/weishop/pkg/workerpool"
	"github.com/chenweihao/weishop/pkg/ws"
)

const (
	OrderPlaced    = "order.placed"
	OrderCancelled = "order.cancelled"
)

// Cache keys invalidated whenever an order changes.
const (
	StatsCoreKey  = "stats:core"
	StatsDailyKey = "stats:daily_sales"
)

// OrderEvent is the payload carried by both order events.
type OrderEvent struct {
	OrderID     uint               `json:"order_id"`
	Ref         string             `json:"ref"`
	UserID      uint               `json:"user_id"`
	TotalAmount float64            `json:"total_amount"`
	Status      models.OrderStatus `json:"status"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// OrdersFeed pushes order events to connected admin panel clients.
var OrdersFeed = ws.NewHub()

// Listener side effects run on a small pool so event publishers (the
// order service, right after commit) never block on Redis or the feed.
var listeners = workerpool.New(4)

// FireOrderPlaced publishes an order.placed event. Call after commit.
func FireOrderPlaced(order models.Order) {
	event.Fire(OrderPlaced, fromOrder(order))
}

// FireOrderCancelled publishes an order.cancelled event. Call after commit.
func FireOrderCancelled(order models.Order) {
	event.Fire(OrderCancelled, fromOrder(order))
}

// Register hooks up the listeners and starts the feed hub. Called once
// at server boot.
func Register() {
	go OrdersFeed.Run()

	queue.Register("*jobs.OrderNotificationJob", func() queue.Job { return &jobs.OrderNotificationJob{} })

	event.Listen(OrderPlaced, onOrderEvent("order_placed"))
	event.Listen(OrderCancelled, onOrderEvent("order_cancelled"))
}

func onOrderEvent(kind string) event.Handler {
	return func(payload interface{}) {
		e, ok := payload.(OrderEvent)
		if !ok {
			return
		}

		if err := listeners.Submit(func() {
			if msg, err := json.Marshal(map[string]interface{}{"type": kind, "order": e}); err == nil {
				OrdersFeed.Broadcast <- msg
			}

			// Orders moved, so the dashboard numbers are stale.
			if err := cache.Del(StatsCoreKey, StatsDailyKey); err != nil {
				logger.Warn("events: stats cache invalidation failed", "error", err)
			}

			if err := queue.Dispatch(&jobs.OrderNotificationJob{
				Kind:        kind,
				OrderRef:    e.Ref,
				TotalAmount: e.TotalAmount,
			}); err != nil {
				logger.Error("events: dispatch notification job", "error", err)
			}
		}); err != nil {
			logger.Warn("events: listener pool rejected task", "error", err)
		}
	}
}

func fromOrder(order models.Order) OrderEvent {
	return OrderEvent{
		OrderID:     order.ID,
		Ref:         order.Ref,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		OccurredAt:  time.Now().UTC(),
	}
}
