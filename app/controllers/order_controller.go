package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/pkg/bind"
	"github.com/shashiranjanraj/zaika/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type createOrderInput struct {
	Items []services.OrderLine `json:"items" validate:"required,min=1,dive"`
}

type payInput struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

type updateStatusInput struct {
	IsPaid    bool `json:"is_paid"`
	IsExpired bool `json:"is_expired"`
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in createOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.Create(r.Context(), id, in.Items)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in payInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.Pay(r.Context(), id, in.PaymentID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"order_id": order.ID.Hex()})
}

func (c *OrderController) Track(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	order, err := c.service.Track(r.Context(), id, chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) AllStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.service.Statuses())
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var in updateStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), id, chi.URLParam(r, "orderID"), in.IsPaid, in.IsExpired)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

// List serves both GET /orders and GET /orders/{status}.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var status *models.OrderStatus
	if raw := chi.URLParam(r, "status"); raw != "" {
		parsed, valid := models.ParseStatus(raw)
		if !valid {
			response.BadRequest(w, "unknown order status "+raw)
			return
		}
		status = &parsed
	}

	orders, err := c.service.List(r.Context(), id, status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, orders)
}
