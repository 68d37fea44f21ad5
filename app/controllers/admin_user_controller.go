package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/resources"
	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/bind"
	"github.com/chenweihao/weishop/pkg/resource"
	"github.com/chenweihao/weishop/pkg/response"
	"gorm.io/gorm"
)

// AdminUserController manages customer accounts from the back office.
type AdminUserController struct {
	service *services.UserService
}

func NewAdminUserController(db *gorm.DB) *AdminUserController {
	return &AdminUserController{service: services.NewUserService(db)}
}

func (c *AdminUserController) Index(w http.ResponseWriter, r *http.Request) {
	users, pagination, err := c.service.List(
		queryInt(r, "page", 1),
		queryInt(r, "page_size", 10),
		r.URL.Query().Get("search"),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Paginated(w, users, pagination)
}

func (c *AdminUserController) Show(w http.ResponseWriter, r *http.Request) {
	user, err := c.service.Get(pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resource.New(&resources.UserResource{}, user).Respond(w)
}

func (c *AdminUserController) Lock(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Lock(pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "user locked"})
}

func (c *AdminUserController) Unlock(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Unlock(pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "user unlocked"})
}

type resetPasswordInput struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (c *AdminUserController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in resetPasswordInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ResetPassword(pathID(r, "id"), in.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "password reset"})
}
