// Package events is the in-process glue between order lifecycle signals and
// the loyalty bookkeeping. Subscribers run synchronously with the publisher
// but their failures never propagate: a broken loyalty update must not block
// or roll back the order event that triggered it.
package events

import (
	"context"
	"log"
	"sync"
)

// Event names published by the storefront integration.
const (
	OrderPaymentCaptured = "order.payment_captured"
	OrderCanceled        = "order.canceled"
	ReturnReceived       = "return.received"
)

// OrderEvent identifies the order an event concerns.
type OrderEvent struct {
	OrderID string
}

// ReturnReceivedEvent is the external return-tracking signal.
type ReturnReceivedEvent struct {
	ReturnID string
	OrderID  string
}

// Handler processes one event payload.
type Handler func(ctx context.Context, payload interface{}) error

// Dispatcher is a minimal synchronous event bus.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

func (d *Dispatcher) Subscribe(event string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], h)
}

// Publish invokes every subscriber for the event. Errors and panics are
// logged and swallowed; Publish always returns to the caller.
func (d *Dispatcher) Publish(ctx context.Context, event string, payload interface{}) {
	d.mu.RLock()
	handlers := d.handlers[event]
	d.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("events: handler for %s panicked: %v", event, r)
				}
			}()
			if err := h(ctx, payload); err != nil {
				log.Printf("events: handler for %s failed: %v", event, err)
			}
		}()
	}
}
