package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/resources"
	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/bind"
	"github.com/chenweihao/weishop/pkg/resource"
	"github.com/chenweihao/weishop/pkg/response"
	"gorm.io/gorm"
)

// AdminOrderController is the back-office view over all orders.
type AdminOrderController struct {
	service *services.OrderService
}

func NewAdminOrderController(db *gorm.DB) *AdminOrderController {
	return &AdminOrderController{service: services.NewOrderService(db)}
}

func (c *AdminOrderController) Index(w http.ResponseWriter, r *http.Request) {
	var status models.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := models.ParseOrderStatus(raw)
		if !ok {
			response.Error(w, http.StatusBadRequest, "unknown order status")
			return
		}
		status = parsed
	}

	orders, pagination, err := c.service.AdminList(
		status, queryInt(r, "page", 1), queryInt(r, "page_size", 10),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Paginated(w, orders, pagination)
}

func (c *AdminOrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.AdminGet(pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resource.New(&resources.OrderResource{}, order).Respond(w)
}

type updateStatusInput struct {
	Status string `json:"status" validate:"required,in=shipped,completed,cancelled"`
}

// UpdateStatus applies an admin transition: ship, complete or cancel.
// Cancelling restores stock like a customer cancellation.
func (c *AdminOrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in updateStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	status, ok := models.ParseOrderStatus(in.Status)
	if !ok {
		response.Error(w, http.StatusBadRequest, "unknown order status")
		return
	}

	if err := c.service.AdminUpdateStatus(pathID(r, "id"), status); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "order updated"})
}
