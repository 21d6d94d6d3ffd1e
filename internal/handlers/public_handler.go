package handlers

import (
	"net/http"

	"market-pos/internal/services"

	"github.com/pocketbase/pocketbase/core"
)

// PublicHandler serves the share-link routes. The token in the path is the only credential.
type PublicHandler struct {
	dashboard *services.DashboardService
	requests  *services.RequestService
}

func NewPublicHandler(dashboard *services.DashboardService, requests *services.RequestService) *PublicHandler {
	return &PublicHandler{dashboard: dashboard, requests: requests}
}

func (h *PublicHandler) Dashboard(e *core.RequestEvent) error {
	d, err := h.dashboard.Vendor(e.Request.Context(), e.Request.PathValue("token"))
	if err != nil {
		return apiError(e, "load vendor dashboard", err)
	}
	return e.JSON(http.StatusOK, d)
}

func (h *PublicHandler) SubmitRequest(e *core.RequestEvent) error {
	var in services.SubmitRequestInput
	if err := bindAndValidate(e, &in); err != nil {
		return err
	}

	req, err := h.requests.Submit(e.Request.Context(), e.Request.PathValue("token"), in)
	if err != nil {
		return apiError(e, "submit payment request", err)
	}
	return e.JSON(http.StatusCreated, req)
}

func (h *PublicHandler) CancelRequest(e *core.RequestEvent) error {
	req, err := h.requests.CancelByPayer(e.Request.Context(), e.Request.PathValue("token"), e.Request.PathValue("id"))
	if err != nil {
		return apiError(e, "cancel payment request", err)
	}
	return e.JSON(http.StatusOK, req)
}
