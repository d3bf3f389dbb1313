package handlers

import (
	"crypto/subtle"

	"falko/internal/events"
	"falko/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// WebhooksHandler receives storefront lifecycle signals and republishes them
// on the in-process dispatcher. The storefront authenticates with a shared
// secret header instead of a customer JWT.
type WebhooksHandler struct {
	dispatcher *events.Dispatcher
	secret     string
}

func NewWebhooksHandler(dispatcher *events.Dispatcher, secret string) *WebhooksHandler {
	return &WebhooksHandler{dispatcher: dispatcher, secret: secret}
}

type webhookEventInput struct {
	Event    string `json:"event" validate:"required"`
	OrderID  string `json:"order_id" validate:"required"`
	ReturnID string `json:"return_id"`
}

// HandleEvent handles POST /webhooks/events.
func (h *WebhooksHandler) HandleEvent(c *fiber.Ctx) error {
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(c.Get("X-Webhook-Secret")), []byte(h.secret)) != 1 {
		return utils.Unauthorized(c, "invalid webhook secret")
	}

	var input webhookEventInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_data", "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "invalid_data", "event and order_id are required")
	}

	switch input.Event {
	case events.OrderPaymentCaptured, events.OrderCanceled:
		h.dispatcher.Publish(c.Context(), input.Event, events.OrderEvent{OrderID: input.OrderID})
	case events.ReturnReceived:
		if input.ReturnID == "" {
			return utils.BadRequest(c, "invalid_data", "return_id is required for return events")
		}
		h.dispatcher.Publish(c.Context(), input.Event, events.ReturnReceivedEvent{
			ReturnID: input.ReturnID,
			OrderID:  input.OrderID,
		})
	default:
		return utils.BadRequest(c, "invalid_data", "unknown event")
	}

	// Subscribers swallow their own failures; acknowledging here keeps the
	// storefront from retrying into double-processing.
	return utils.Success(c, fiber.Map{"received": true})
}
