// Package http exposes the services' write operations over plain net/http.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/order-saga-service/internal/app/order/domain"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/confirm_order"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/create_order"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/deliver_order"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/mark_order_paid"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/ship_order"
)

// OrdersHandler handles HTTP requests for orders.
type OrdersHandler struct {
	create   *create_order.Interactor
	confirm  *confirm_order.Interactor
	markPaid *mark_order_paid.Interactor
	ship     *ship_order.Interactor
	deliver  *deliver_order.Interactor
}

// NewOrdersHandler creates a new HTTP orders handler.
func NewOrdersHandler(
	create *create_order.Interactor,
	confirm *confirm_order.Interactor,
	markPaid *mark_order_paid.Interactor,
	ship *ship_order.Interactor,
	deliver *deliver_order.Interactor,
) *OrdersHandler {
	return &OrdersHandler{
		create:   create,
		confirm:  confirm,
		markPaid: markPaid,
		ship:     ship,
		deliver:  deliver,
	}
}

// Register mounts the order routes on mux.
func (h *OrdersHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/orders", h.handleCreate)
	mux.HandleFunc("POST /api/v1/orders/{orderNumber}/confirm", h.transition(func(r *http.Request) error {
		return h.confirm.Execute(r.Context(), r.PathValue("orderNumber"))
	}))
	mux.HandleFunc("POST /api/v1/orders/{orderNumber}/paid", h.transition(func(r *http.Request) error {
		return h.markPaid.Execute(r.Context(), r.PathValue("orderNumber"))
	}))
	mux.HandleFunc("POST /api/v1/orders/{orderNumber}/ship", h.transition(func(r *http.Request) error {
		return h.ship.Execute(r.Context(), r.PathValue("orderNumber"))
	}))
	mux.HandleFunc("POST /api/v1/orders/{orderNumber}/deliver", h.transition(func(r *http.Request) error {
		return h.deliver.Execute(r.Context(), r.PathValue("orderNumber"))
	}))
}

// CreateOrderRequest is the POST /api/v1/orders request body.
type CreateOrderRequest struct {
	ProductName   string          `json:"productName"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
}

// OrderResponse is the order representation returned to clients.
type OrderResponse struct {
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	ProductName   string          `json:"productName"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (h *OrdersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	order, err := h.create.Execute(r.Context(), &create_order.Request{
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		Price:         req.Price,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, OrderResponse{
		OrderID:       order.ID(),
		OrderNumber:   order.OrderNumber(),
		ProductName:   order.ProductName(),
		Quantity:      order.Quantity(),
		Price:         order.Price(),
		TotalAmount:   order.TotalAmount(),
		CustomerName:  order.CustomerName(),
		CustomerEmail: order.CustomerEmail(),
		Status:        string(order.Status()),
		CreatedAt:     order.CreatedAt(),
	})
}

func (h *OrdersHandler) transition(exec func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := exec(r); err != nil {
			writeOrderError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrEmptyProductName),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrEmptyCustomerName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
