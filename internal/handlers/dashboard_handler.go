package handlers

import (
	"net/http"

	"market-pos/internal/calculator"
	"market-pos/internal/services"

	"github.com/pocketbase/pocketbase/core"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Summary(e *core.RequestEvent) error {
	summary, err := h.dashboard.Operator(e.Request.Context())
	if err != nil {
		return apiError(e, "load dashboard", err)
	}
	return e.JSON(http.StatusOK, summary)
}

// Evaluate replays calculator keystrokes, e.g. {"keys": ["10", "+", "5"]}.
func Evaluate(e *core.RequestEvent) error {
	var body struct {
		Keys []string `json:"keys" validate:"max=200"`
	}
	if err := bindAndValidate(e, &body); err != nil {
		return err
	}

	result, err := calculator.Evaluate(body.Keys)
	if err != nil {
		return apiError(e, "evaluate amount", err)
	}
	return e.JSON(http.StatusOK, result)
}
