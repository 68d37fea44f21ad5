package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusPaid is the initial state: payment captured upstream,
	// awaiting shipment. The only state a user may cancel from.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusShipped means the order is out for delivery.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusCompleted is terminal: the user confirmed receipt.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled is terminal: cancelled before shipment,
	// stock restored.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus maps a request string onto a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// Order is a placed order with its line items. TotalAmount and the item
// unit prices are snapshots taken at placement time; later catalogue
// price changes never alter them.
type Order struct {
	ID                uint        `gorm:"primaryKey"              json:"id"`
	Ref               string      `gorm:"size:64;uniqueIndex"     json:"ref"`
	UserID            uint        `gorm:"not null;index"          json:"user_id"`
	User              User        `gorm:"foreignKey:UserID"       json:"user"`
	OrderDate         time.Time   `gorm:"not null"                json:"order_date"`
	TotalAmount       float64     `gorm:"not null"                json:"total_amount"`
	Status            OrderStatus `gorm:"size:20;not null;index"  json:"status"`
	ShippingAddressID uint        `gorm:"not null"                json:"shipping_address_id"`
	ShippingAddress   Address     `gorm:"foreignKey:ShippingAddressID" json:"shipping_address"`
	Notes             string      `gorm:"size:500"                json:"notes"`
	Items             []OrderItem `gorm:"foreignKey:OrderID"      json:"items"`
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"           json:"id"`
	OrderID   uint    `gorm:"not null;index"       json:"order_id"`
	ProductID uint    `gorm:"not null"             json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null"             json:"quantity"`
	UnitPrice float64 `gorm:"not null"             json:"unit_price"` // price at order time
}
