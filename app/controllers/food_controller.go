package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/pkg/bind"
	"github.com/shashiranjanraj/zaika/pkg/response"
)

type FoodController struct {
	service *services.FoodService
}

func NewFoodController(service *services.FoodService) *FoodController {
	return &FoodController{service: service}
}

type foodInput struct {
	Name     string   `json:"name" validate:"required,min=2,max=200"`
	Price    float64  `json:"price" validate:"gte=0"`
	Tags     []string `json:"tags"`
	Origins  []string `json:"origins"`
	Favorite bool     `json:"favorite"`
	ImageURL string   `json:"image_url" validate:"omitempty,url"`
}

func (in foodInput) toModel() *models.Food {
	return &models.Food{
		Name:     in.Name,
		Price:    in.Price,
		Tags:     in.Tags,
		Origins:  in.Origins,
		Favorite: in.Favorite,
		ImageURL: in.ImageURL,
	}
}

func (c *FoodController) List(w http.ResponseWriter, r *http.Request) {
	foods, err := c.service.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, foods)
}

func (c *FoodController) Get(w http.ResponseWriter, r *http.Request) {
	food, err := c.service.Get(r.Context(), chi.URLParam(r, "foodID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, food)
}

func (c *FoodController) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.service.Tags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, tags)
}

func (c *FoodController) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in foodInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	food, err := c.service.Create(r.Context(), id, in.toModel())
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, food)
}

func (c *FoodController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in foodInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	food, err := c.service.Update(r.Context(), id, chi.URLParam(r, "foodID"), in.toModel())
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, food)
}

func (c *FoodController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	if err := c.service.Delete(r.Context(), id, chi.URLParam(r, "foodID")); err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "deleted"})
}
