package webhook

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"marketpay/internal/gateway"
	"marketpay/internal/logger"
	"marketpay/internal/order"
	"marketpay/internal/payment"

	"go.uber.org/zap"
)

// Handler exposes the gateway delivery paths and the request builder over HTTP.
type Handler struct {
	Orders     order.Repository
	Gateway    gateway.Gateway
	Router     *payment.Router
	Aggregator *payment.Aggregator
}

func NewHandler(orders order.Repository, gw gateway.Gateway, router *payment.Router, agg *payment.Aggregator) *Handler {
	return &Handler{
		Orders:     orders,
		Gateway:    gw,
		Router:     router,
		Aggregator: agg,
	}
}

// RequestHandler builds the signed hosted-page fields covering the whole
// order group of the given order. The checkout front end posts these fields
// to the gateway.
func (h *Handler) RequestHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	orderID, err := strconv.ParseUint(r.URL.Query().Get("order"), 10, 64)
	if err != nil || orderID == 0 {
		http.Error(w, "unknown order", http.StatusBadRequest)
		return
	}

	o, err := h.Orders.GetByID(r.Context(), uint(orderID))
	if err != nil {
		http.Error(w, "unknown order", http.StatusNotFound)
		return
	}

	req, err := h.Aggregator.BuildGroupPaymentRequest(r.Context(), o)
	switch {
	case errors.Is(err, payment.ErrDirectRouting):
		http.Error(w, "payments are not routed through the central store", http.StatusConflict)
		return
	case errors.Is(err, payment.ErrMixedCurrency):
		http.Error(w, "order group mixes currencies", http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Error("group payment request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	fields := h.Gateway.BuildPaymentRequest(req.Reference, req.Amount, req.Currency)

	flat := make(map[string]string, len(fields))
	for k := range fields {
		flat[k] = fields.Get(k)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(flat)
}

// NotifyHandler serves the server-to-server notification. The gateway
// expects an empty acknowledgment no matter what happened internally; it
// never reacts to this response beyond its own retry policy.
func (h *Handler) NotifyHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		log.Warn("unreadable gateway notification", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	fb, err := h.Gateway.ParseFeedback(r.Form)
	if err != nil {
		log.Warn("malformed gateway notification", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.Router.HandleNotification(r.Context(), fb); err != nil {
		log.Error("notification processing failed", zap.Error(err))
	}

	w.WriteHeader(http.StatusOK)
}

// ReturnHandler serves the interactive browser-redirect return for the one
// order the checkout session appended to the return URL.
func (h *Handler) ReturnHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	orderID, err := strconv.ParseUint(r.Form.Get("order"), 10, 64)
	if err != nil || orderID == 0 {
		http.Error(w, "unknown order", http.StatusBadRequest)
		return
	}

	o, err := h.Orders.GetByID(r.Context(), uint(orderID))
	if err != nil {
		log.Warn("redirect for unknown order", zap.Uint64("order_id", orderID), zap.Error(err))
		http.Error(w, "unknown order", http.StatusNotFound)
		return
	}

	fb, err := h.Gateway.ParseFeedback(r.Form)
	if err != nil {
		log.Warn("malformed redirect feedback", zap.Error(err))
		http.Error(w, "invalid feedback", http.StatusBadRequest)
		return
	}

	valid := h.Router.ValidateRedirect(r.Context(), o, fb)

	w.Header().Set("Content-Type", "application/json")
	if !valid {
		w.WriteHeader(http.StatusUnauthorized)
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"valid": valid})
}
