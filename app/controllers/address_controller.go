package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/bind"
	"github.com/chenweihao/weishop/pkg/response"
	"gorm.io/gorm"
)

type AddressController struct {
	service *services.AddressService
}

func NewAddressController(db *gorm.DB) *AddressController {
	return &AddressController{service: services.NewAddressService(db)}
}

type addressInput struct {
	ContactName   string `json:"contact_name" validate:"required,max=100"`
	PhoneNumber   string `json:"phone_number" validate:"required,max=30"`
	Province      string `json:"province" validate:"required,max=100"`
	City          string `json:"city" validate:"required,max=100"`
	StreetAddress string `json:"street_address" validate:"required,max=255"`
	PostalCode    string `json:"postal_code" validate:"nullable,max=20"`
	IsDefault     bool   `json:"is_default"`
}

func (in addressInput) toService() services.AddressInput {
	return services.AddressInput{
		ContactName:   in.ContactName,
		PhoneNumber:   in.PhoneNumber,
		Province:      in.Province,
		City:          in.City,
		StreetAddress: in.StreetAddress,
		PostalCode:    in.PostalCode,
		IsDefault:     in.IsDefault,
	}
}

func (c *AddressController) Index(w http.ResponseWriter, r *http.Request) {
	addresses, err := c.service.List(currentUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, addresses)
}

func (c *AddressController) Show(w http.ResponseWriter, r *http.Request) {
	address, err := c.service.Get(pathID(r, "id"), currentUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, address)
}

func (c *AddressController) Create(w http.ResponseWriter, r *http.Request) {
	var in addressInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	address, err := c.service.Create(currentUserID(r), in.toService())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, address)
}

func (c *AddressController) Update(w http.ResponseWriter, r *http.Request) {
	var in addressInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	address, err := c.service.Update(pathID(r, "id"), currentUserID(r), in.toService())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, address)
}

func (c *AddressController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(pathID(r, "id"), currentUserID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "address removed"})
}

func (c *AddressController) SetDefault(w http.ResponseWriter, r *http.Request) {
	if err := c.service.SetDefault(pathID(r, "id"), currentUserID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "default address updated"})
}
