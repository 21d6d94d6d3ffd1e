package handlers

import (
	"net/http"

	"market-pos/internal/services"
	"market-pos/models"

	"github.com/pocketbase/pocketbase/core"
)

type VendorHandler struct {
	vendors *services.VendorService
}

func NewVendorHandler(vendors *services.VendorService) *VendorHandler {
	return &VendorHandler{vendors: vendors}
}

type vendorResponse struct {
	models.Vendor
	ShareURL string `json:"share_url"`
}

func (h *VendorHandler) response(v models.Vendor) vendorResponse {
	return vendorResponse{Vendor: v, ShareURL: h.vendors.ShareURL(v)}
}

func (h *VendorHandler) List(e *core.RequestEvent) error {
	vendors, err := h.vendors.List(e.Request.Context())
	if err != nil {
		return apiError(e, "list vendors", err)
	}

	out := make([]vendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, h.response(v))
	}
	return e.JSON(http.StatusOK, out)
}

func (h *VendorHandler) Get(e *core.RequestEvent) error {
	v, err := h.vendors.Get(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(e, "get vendor", err)
	}
	return e.JSON(http.StatusOK, h.response(*v))
}

func (h *VendorHandler) Create(e *core.RequestEvent) error {
	var in services.VendorInput
	if err := bindAndValidate(e, &in); err != nil {
		return err
	}

	v, err := h.vendors.Create(e.Request.Context(), in)
	if err != nil {
		return apiError(e, "create vendor", err)
	}
	return e.JSON(http.StatusCreated, h.response(*v))
}

func (h *VendorHandler) Update(e *core.RequestEvent) error {
	var in services.VendorInput
	if err := bindAndValidate(e, &in); err != nil {
		return err
	}

	v, err := h.vendors.Update(e.Request.Context(), e.Request.PathValue("id"), in)
	if err != nil {
		return apiError(e, "update vendor", err)
	}
	return e.JSON(http.StatusOK, h.response(*v))
}

func (h *VendorHandler) Delete(e *core.RequestEvent) error {
	if err := h.vendors.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return apiError(e, "delete vendor", err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *VendorHandler) RotateToken(e *core.RequestEvent) error {
	v, err := h.vendors.RotateToken(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(e, "rotate share token", err)
	}
	return e.JSON(http.StatusOK, h.response(*v))
}
