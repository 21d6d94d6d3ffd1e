package handlers

import (
	"net/http"

	"market-pos/internal/services"
	"market-pos/models"
	"market-pos/utils"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

const SessionHeader = "X-Session-ID"

type BatchHandler struct {
	batches *services.BatchService
}

func NewBatchHandler(batches *services.BatchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

func sessionID(e *core.RequestEvent) (string, error) {
	id := e.Request.Header.Get(SessionHeader)
	if id == "" {
		return "", apis.NewBadRequestError(SessionHeader+" header is required", nil)
	}
	return id, nil
}

// NewSession hands out an id for the X-Session-ID header. The batch itself is
// only stored once something is added to it.
func (h *BatchHandler) NewSession(e *core.RequestEvent) error {
	return e.JSON(http.StatusCreated, map[string]string{"session_id": utils.GenerateSessionID()})
}

func (h *BatchHandler) Get(e *core.RequestEvent) error {
	session, err := sessionID(e)
	if err != nil {
		return err
	}

	b, err := h.batches.Get(e.Request.Context(), session)
	if err != nil {
		return apiError(e, "load batch", err)
	}
	return e.JSON(http.StatusOK, services.NewBatchView(b))
}

func (h *BatchHandler) Toggle(e *core.RequestEvent) error {
	session, err := sessionID(e)
	if err != nil {
		return err
	}

	var body struct {
		RequestID string `json:"request_id" validate:"required"`
	}
	if err := bindAndValidate(e, &body); err != nil {
		return err
	}

	b, in, err := h.batches.Toggle(e.Request.Context(), session, body.RequestID)
	if err != nil {
		return apiError(e, "toggle batch request", err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"in_batch": in,
		"batch":    services.NewBatchView(b),
	})
}

func (h *BatchHandler) AddManual(e *core.RequestEvent) error {
	session, err := sessionID(e)
	if err != nil {
		return err
	}

	var in services.ManualItemInput
	if err := bindAndValidate(e, &in); err != nil {
		return err
	}

	b, err := h.batches.AddManual(e.Request.Context(), session, in)
	if err != nil {
		return apiError(e, "add manual item", err)
	}
	return e.JSON(http.StatusCreated, services.NewBatchView(b))
}

func (h *BatchHandler) RemoveItem(e *core.RequestEvent) error {
	session, err := sessionID(e)
	if err != nil {
		return err
	}

	b, err := h.batches.Remove(e.Request.Context(), session, e.Request.PathValue("itemId"))
	if err != nil {
		return apiError(e, "remove batch item", err)
	}
	return e.JSON(http.StatusOK, services.NewBatchView(b))
}

func (h *BatchHandler) Clear(e *core.RequestEvent) error {
	session, err := sessionID(e)
	if err != nil {
		return err
	}

	if err := h.batches.Clear(e.Request.Context(), session); err != nil {
		return apiError(e, "clear batch", err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *BatchHandler) Commit(e *core.RequestEvent) error {
	session, err := sessionID(e)
	if err != nil {
		return err
	}

	var body paymentMethodBody
	if err := bindAndValidate(e, &body); err != nil {
		return err
	}

	result, err := h.batches.Commit(e.Request.Context(), session, models.PaymentMethod(body.PaymentMethod))
	if err != nil {
		return apiError(e, "commit batch", err)
	}
	return e.JSON(http.StatusOK, result)
}
