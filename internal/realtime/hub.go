// Package realtime turns datastore record hooks into change events and
// fans them out to in-process snapshots and PubNub channels.
package realtime

import (
	"sync"
	"time"

	"market-pos/migrations"

	"github.com/pocketbase/pocketbase/core"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type ChangeEvent struct {
	Collection string    `json:"collection"`
	Action     Action    `json:"action"`
	RecordID   string    `json:"record_id"`
	VendorID   string    `json:"vendor_id,omitempty"`
	At         time.Time `json:"at"`
}

type Hub struct {
	mu          sync.RWMutex
	subscribers []func(ChangeEvent)
}

func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) Subscribe(fn func(ChangeEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, fn)
}

// Publish calls every subscriber synchronously in subscription order.
func (h *Hub) Publish(ev ChangeEvent) {
	h.mu.RLock()
	subs := make([]func(ChangeEvent), len(h.subscribers))
	copy(subs, h.subscribers)
	h.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Bind registers after-success record hooks for the given collections.
func (h *Hub) Bind(app core.App, collections ...string) {
	forward := func(action Action) func(e *core.RecordEvent) error {
		return func(e *core.RecordEvent) error {
			h.Publish(EventFromRecord(action, e.Record))
			return e.Next()
		}
	}

	app.OnRecordAfterCreateSuccess(collections...).BindFunc(forward(ActionCreate))
	app.OnRecordAfterUpdateSuccess(collections...).BindFunc(forward(ActionUpdate))
	app.OnRecordAfterDeleteSuccess(collections...).BindFunc(forward(ActionDelete))
}

// EventFromRecord builds the event for a record. A vendor record is its own vendor.
func EventFromRecord(action Action, record *core.Record) ChangeEvent {
	collection := record.Collection().Name

	vendorID := record.GetString("vendor_id")
	if collection == migrations.VendorsCollection {
		vendorID = record.Id
	}

	return ChangeEvent{
		Collection: collection,
		Action:     action,
		RecordID:   record.Id,
		VendorID:   vendorID,
		At:         time.Now().UTC(),
	}
}
