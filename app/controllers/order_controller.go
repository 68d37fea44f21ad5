package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/bind"
	"github.com/chenweihao/weishop/pkg/response"
	"gorm.io/gorm"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{service: services.NewOrderService(db)}
}

type orderLineInput struct {
	ProductID uint `json:"product_id" validate:"required,gte=1"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

type placeOrderInput struct {
	ShippingAddressID uint             `json:"shipping_address_id" validate:"required,gte=1"`
	Items             []orderLineInput `json:"items" validate:"required"`
	Notes             string           `json:"notes" validate:"nullable,max=500"`
}

// Create places an order: stock is deducted and the order persisted in
// one transaction.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in placeOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	lines := make([]services.OrderLine, 0, len(in.Items))
	for _, item := range in.Items {
		lines = append(lines, services.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := c.service.PlaceOrder(currentUserID(r), in.ShippingAddressID, lines, in.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	var status models.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := models.ParseOrderStatus(raw)
		if !ok {
			response.Error(w, http.StatusBadRequest, "unknown order status")
			return
		}
		status = parsed
	}

	orders, pagination, err := c.service.ListMine(
		currentUserID(r), status,
		queryInt(r, "page", 1), queryInt(r, "page_size", 10),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Paginated(w, orders, pagination)
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.Get(pathID(r, "id"), currentUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, order)
}

// Cancel reverses a paid order, restoring its stock.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := c.service.CancelOrder(pathID(r, "id"), currentUserID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "order cancelled"})
}

// ConfirmReceipt completes a shipped order.
func (c *OrderController) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	if err := c.service.ConfirmReceipt(pathID(r, "id"), currentUserID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "receipt confirmed"})
}
