package orderapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sizzling-burgers/tracking-hub/internal/domain/orders"
	"github.com/sizzling-burgers/tracking-hub/internal/ports"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
)

// Handler is the thin order-placement glue over the tracking hub. Business
// rules (identity, registration, fan-out) stay behind the collaborator
// interface; this layer only parses and validates the HTTP shape.
type Handler struct {
	hub      ports.TrackingHub
	verifier ports.CredentialVerifier
	logger   *logger.Logger
}

// NewHandler wires an HTTP handler around the tracking hub.
func NewHandler(hub ports.TrackingHub, verifier ports.CredentialVerifier, logger *logger.Logger) *Handler {
	return &Handler{hub: hub, verifier: verifier, logger: logger}
}

// Register mounts the order routes on the provided mux.
func (handler *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", handler.handlePlaceOrder)
	mux.HandleFunc("GET /orders/my", handler.handleMyOrders)
}

// --- Request/Response DTOs (HTTP boundary) ---

type placeOrderRequest struct {
	CustomerName string                  `json:"customer_name"`
	OrderType    string                  `json:"order_type,omitempty"`
	Items        []placeOrderItemRequest `json:"items"`
}

type placeOrderItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // decimal dollars
}

type placeOrderResponse struct {
	OrderID     int64   `json:"order_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type myOrderResponse struct {
	OrderID           int64      `json:"order_id"`
	Status            string     `json:"status"`
	TotalAmount       float64    `json:"total_amount"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// --- Handlers ---

func (handler *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	identity, err := handler.identify(r)
	if err != nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, err.Error(), err)
		return
	}

	// check the size of the request body
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	// check the content type
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", errors.New("unsupported content type: "+ct))
		return
	}

	// decode strictly
	var req placeOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return
	}

	order, err := toOrder(req, identity)
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	handler.logger.Debug(ctx, "order_received", "new order request received", map[string]any{
		"user_id":     identity.UserID,
		"items_count": len(order.Items),
	})

	// bound request time
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	orderID := handler.hub.RegisterOrder(ctxWithTimeout, order)
	handler.hub.NotifyAdmins(ctxWithTimeout, orderID)

	resp := placeOrderResponse{
		OrderID:     orderID,
		Status:      string(order.Status),
		TotalAmount: order.Total.ToFloat2(),
	}
	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, resp)
}

func (handler *Handler) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	identity, err := handler.identify(r)
	if err != nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, err.Error(), err)
		return
	}

	owned := handler.hub.OrdersOf(ctx, identity.UserID)
	resp := make([]myOrderResponse, len(owned))
	for i, order := range owned {
		resp[i] = myOrderResponse{
			OrderID:           order.ID,
			Status:            string(order.Status),
			TotalAmount:       order.Total.ToFloat2(),
			EstimatedDelivery: order.EstimatedDelivery,
			CreatedAt:         order.CreatedAt,
			UpdatedAt:         order.UpdatedAt,
		}
	}
	handler.jsonResponse(ctx, w, http.StatusOK, resp)
}

// --- Helpers ---

func toOrder(req placeOrderRequest, identity ports.Identity) (*orders.Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("items must not be empty")
	}

	orderType := orders.OrderTypeDelivery
	switch strings.ToLower(strings.TrimSpace(req.OrderType)) {
	case "", "delivery":
		// default
	case "pickup":
		orderType = orders.OrderTypePickup
	default:
		return nil, errors.New("order_type must be 'pickup' or 'delivery'")
	}

	items := make([]orders.OrderItem, len(req.Items))
	for i, it := range req.Items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, errors.New("item name must not be empty")
		}
		if it.Quantity <= 0 {
			return nil, errors.New("item quantity must be positive")
		}
		if it.Price <= 0 {
			return nil, errors.New("item price must be positive")
		}
		items[i] = orders.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    orders.NewMoneyFromFloat2(it.Price),
		}
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		customerName = identity.Email
	}

	return &orders.Order{
		UserID:       identity.UserID,
		CustomerName: customerName,
		OrderType:    orderType,
		Items:        items,
	}, nil
}

// identify verifies the bearer credential on the request.
func (handler *Handler) identify(r *http.Request) (ports.Identity, error) {
	auth := r.Header.Get("Authorization")
	token, _ := strings.CutPrefix(auth, "Bearer ")
	return handler.verifier.Verify(token)
}

// httpError sends a JSON error response with a message.
func (handler *Handler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	// map status -> action
	action := "request_failed"
	switch {
	case status >= 500:
		action = "http_internal_error"
	case status == http.StatusBadRequest:
		action = "validation_failed"
	case status == http.StatusUnauthorized:
		action = "auth_failed"
	case status == http.StatusUnsupportedMediaType:
		action = "unsupported_media_type"
	}
	handler.logger.Error(ctx, action, msg, err)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// jsonResponse takes any type of data and encodes it to the HTTP response.
func (handler *Handler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "failed to encode response", err)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *Handler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
