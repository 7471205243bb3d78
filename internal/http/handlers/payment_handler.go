package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/staywell/staywell-server/internal/http/middleware"
	"github.com/staywell/staywell-server/internal/http/response"
	"github.com/staywell/staywell-server/internal/platform/payments"
	"github.com/staywell/staywell-server/pkg/events"
	"github.com/staywell/staywell-server/pkg/logger"
)

// PaymentHandler delegates to the payment provider. The core never touches
// card data; it only mints an intent and hands the client secret back.
type PaymentHandler struct {
	Payments payments.IntentCreator
	EventBus events.Publisher
}

func NewPaymentHandler(p payments.IntentCreator, eventBus events.Publisher) *PaymentHandler {
	return &PaymentHandler{Payments: p, EventBus: eventBus}
}

// CreateIntent handles POST /create-payment-intent (authenticated)
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid input")
		return
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price*100 < 1 {
		response.Unprocessable(w, "price must be a positive amount")
		return
	}

	intent, err := h.Payments.CreateIntent(r.Context(), in.Price)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to create payment intent", "error", err)
		response.InternalError(w, "failed to create payment intent")
		return
	}

	event := events.PaymentIntentCreatedEvent{
		IntentID: intent.ID,
		Email:    claims.Email,
		Amount:   intent.Amount,
		Currency: intent.Currency,
		Price:    in.Price,
	}
	if err := h.EventBus.Publish(r.Context(), events.PaymentIntentCreated, event); err != nil {
		logger.ErrorContext(r.Context(), "Failed to publish payment intent event", "error", err, "intent_id", intent.ID)
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"clientSecret": intent.ClientSecret})
}
