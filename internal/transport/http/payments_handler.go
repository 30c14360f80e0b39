package http

import (
	"errors"
	"net/http"

	"github.com/light-bringer/order-saga-service/internal/app/payment/domain"
	"github.com/light-bringer/order-saga-service/internal/app/payment/usecases/refund_payment"
)

// PaymentsHandler handles HTTP requests for payments.
type PaymentsHandler struct {
	refund *refund_payment.Interactor
}

// NewPaymentsHandler creates a new HTTP payments handler.
func NewPaymentsHandler(refund *refund_payment.Interactor) *PaymentsHandler {
	return &PaymentsHandler{refund: refund}
}

// Register mounts the payment routes on mux.
func (h *PaymentsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/payments/{paymentNumber}/refund", h.handleRefund)
}

func (h *PaymentsHandler) handleRefund(w http.ResponseWriter, r *http.Request) {
	err := h.refund.Execute(r.Context(), r.PathValue("paymentNumber"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
