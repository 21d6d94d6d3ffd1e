package handlers

import (
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
)

type Handlers struct {
	Vendors      *VendorHandler
	Transactions *TransactionHandler
	Requests     *RequestHandler
	Batch        *BatchHandler
	Dashboard    *DashboardHandler
	Public       *PublicHandler
}

// Register mounts the operator and public APIs under /api/v1. operatorGuard and
// publicLimit may be nil.
func (h *Handlers) Register(r *router.Router[*core.RequestEvent], operatorGuard, publicLimit func(e *core.RequestEvent) error) {
	api := r.Group("/api/v1")

	op := api.Group("")
	if operatorGuard != nil {
		op.BindFunc(operatorGuard)
	}

	// Vendors
	op.GET("/vendors", h.Vendors.List)
	op.POST("/vendors", h.Vendors.Create)
	op.GET("/vendors/{id}", h.Vendors.Get)
	op.PATCH("/vendors/{id}", h.Vendors.Update)
	op.DELETE("/vendors/{id}", h.Vendors.Delete)
	op.POST("/vendors/{id}/rotate-token", h.Vendors.RotateToken)

	// Transactions
	op.GET("/transactions", h.Transactions.List)
	op.POST("/transactions", h.Transactions.Create)
	op.GET("/transactions/export", h.Transactions.Export)
	op.GET("/transactions/{id}", h.Transactions.Get)
	op.PATCH("/transactions/{id}", h.Transactions.Update)
	op.DELETE("/transactions/{id}", h.Transactions.Delete)

	// Payment requests
	op.GET("/requests", h.Requests.List)
	op.GET("/requests/{id}", h.Requests.Get)
	op.POST("/requests/{id}/cancel", h.Requests.Cancel)
	op.POST("/requests/{id}/fulfil", h.Requests.Fulfil)

	// Batch
	op.POST("/batch/session", h.Batch.NewSession)
	op.GET("/batch", h.Batch.Get)
	op.POST("/batch/toggle", h.Batch.Toggle)
	op.POST("/batch/manual", h.Batch.AddManual)
	op.DELETE("/batch/items/{itemId}", h.Batch.RemoveItem)
	op.DELETE("/batch", h.Batch.Clear)
	op.POST("/batch/commit", h.Batch.Commit)

	op.GET("/dashboard", h.Dashboard.Summary)
	op.POST("/calculator/evaluate", Evaluate)

	// Share-link routes
	pub := api.Group("/public/{token}")
	if publicLimit != nil {
		pub.BindFunc(publicLimit)
	}
	pub.GET("", h.Public.Dashboard)
	pub.POST("/requests", h.Public.SubmitRequest)
	pub.POST("/requests/{id}/cancel", h.Public.CancelRequest)
}
