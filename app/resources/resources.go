// Package resources shapes admin API output: what the back office sees
// of a model, not the raw row.
package resources

import (
	"fmt"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/resource"
)

// UserResource is the admin view of an account.
type UserResource struct{ resource.Base }

func (r *UserResource) ToArray(v interface{}) resource.Map {
	u, ok := v.(models.User)
	if !ok {
		return resource.Map{}
	}
	return resource.Map{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"is_locked":  u.IsLocked,
		"created_at": u.CreatedAt,
		"links":      resource.Map{"self": fmt.Sprintf("/api/admin/users/%d", u.ID)},
	}
}

// OrderResource is the admin view of an order, with the customer and
// line items flattened for the panel.
type OrderResource struct{ resource.Base }

func (r *OrderResource) ToArray(v interface{}) resource.Map {
	o, ok := v.(models.Order)
	if !ok {
		return resource.Map{}
	}

	items := make([]resource.Map, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, resource.Map{
			"product_id": item.ProductID,
			"name":       item.Product.Name,
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice,
		})
	}

	return resource.Map{
		"id":           o.ID,
		"ref":          o.Ref,
		"status":       o.Status,
		"order_date":   o.OrderDate,
		"total_amount": o.TotalAmount,
		"notes":        o.Notes,
		"customer": resource.Map{
			"id":    o.UserID,
			"name":  o.User.Name,
			"email": o.User.Email,
		},
		"shipping_address": o.ShippingAddress,
		"items":            items,
		"links":            resource.Map{"self": fmt.Sprintf("/api/admin/orders/%d", o.ID)},
	}
}
