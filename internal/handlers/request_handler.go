package handlers

import (
	"net/http"

	"market-pos/internal/services"
	"market-pos/internal/store"
	"market-pos/models"

	"github.com/pocketbase/pocketbase/core"
)

type paymentMethodBody struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card cash other"`
}

type RequestHandler struct {
	requests *services.RequestService
}

func NewRequestHandler(requests *services.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

func (h *RequestHandler) List(e *core.RequestEvent) error {
	q := e.Request.URL.Query()
	filter := store.RequestFilter{
		VendorID: q.Get("vendor_id"),
		Status:   models.RequestStatus(q.Get("status")),
	}

	requests, err := h.requests.List(e.Request.Context(), filter)
	if err != nil {
		return apiError(e, "list payment requests", err)
	}
	return e.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) Get(e *core.RequestEvent) error {
	req, err := h.requests.Get(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(e, "get payment request", err)
	}
	return e.JSON(http.StatusOK, req)
}

func (h *RequestHandler) Cancel(e *core.RequestEvent) error {
	req, err := h.requests.Cancel(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(e, "cancel payment request", err)
	}
	return e.JSON(http.StatusOK, req)
}

// Fulfil records one request immediately, outside of the session batch.
func (h *RequestHandler) Fulfil(e *core.RequestEvent) error {
	var body paymentMethodBody
	if err := bindAndValidate(e, &body); err != nil {
		return err
	}

	result, err := h.requests.Fulfil(e.Request.Context(), e.Request.PathValue("id"), models.PaymentMethod(body.PaymentMethod))
	if err != nil {
		return apiError(e, "fulfil payment request", err)
	}
	return e.JSON(http.StatusOK, result)
}
