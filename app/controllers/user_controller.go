package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/pkg/bind"
	"github.com/shashiranjanraj/zaika/pkg/response"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

type updateProfileInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Address string `json:"address" validate:"max=500"`
}

type changePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := c.service.Profile(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, user)
}

func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in updateProfileInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.UpdateProfile(r.Context(), id, in.Name, in.Address)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, user)
}

func (c *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in changePasswordInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ChangePassword(r.Context(), id, in.OldPassword, in.NewPassword); err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "password updated"})
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	users, err := c.service.List(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, users)
}

func (c *UserController) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := c.service.ToggleBlock(r.Context(), id, chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, user)
}
