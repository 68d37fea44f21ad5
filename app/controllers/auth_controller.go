package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/bind"
	"github.com/chenweihao/weishop/pkg/response"
	"gorm.io/gorm"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{service: services.NewAuthService(db)}
}

type registerInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Register(in.Name, in.Email, in.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, user)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.service.Login(in.Email, in.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tokens, err := c.service.Refresh(in.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, tokens)
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := c.service.Profile(currentUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, user)
}
