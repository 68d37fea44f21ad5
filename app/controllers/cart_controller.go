package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/bind"
	"github.com/chenweihao/weishop/pkg/response"
	"gorm.io/gorm"
)

type CartController struct {
	service *services.CartService
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{service: services.NewCartService(db)}
}

// Show returns the caller's cart, reconciled against current stock.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	cart, err := c.service.Get(currentUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, cart)
}

type addItemInput struct {
	ProductID uint `json:"product_id" validate:"required,gte=1"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var in addItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.service.AddItem(currentUserID(r), in.ProductID, in.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, cart)
}

type updateItemInput struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var in updateItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.service.UpdateItemQuantity(currentUserID(r), pathID(r, "id"), in.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, cart)
}

type removeItemsInput struct {
	ItemIDs []uint `json:"item_ids" validate:"required"`
}

func (c *CartController) RemoveItems(w http.ResponseWriter, r *http.Request) {
	var in removeItemsInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.service.RemoveItems(currentUserID(r), in.ItemIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, cart)
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Clear(currentUserID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "cart cleared"})
}
