package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/cart/internal/storage"
	couponRequest "github.com/Alturino/bagstore/coupon/pkg/request"
	couponResponse "github.com/Alturino/bagstore/coupon/pkg/response"
	"github.com/Alturino/bagstore/internal/gateway"
	inHttp "github.com/Alturino/bagstore/internal/http"
	orderRequest "github.com/Alturino/bagstore/order/pkg/request"
	orderResponse "github.com/Alturino/bagstore/order/pkg/response"
	productResponse "github.com/Alturino/bagstore/product/pkg/response"
	"github.com/Alturino/bagstore/pricing"
)

var (
	toteID     = uuid.MustParse("0b6f3c0e-5d0e-4a44-9a57-6d1f2c3a4b01")
	pouchID    = uuid.MustParse("0b6f3c0e-5d0e-4a44-9a57-6d1f2c3a4b02")
	standardID = uuid.MustParse("5f1c7d2a-0000-4000-8000-000000000001")
	expressID  = uuid.MustParse("5f1c7d2a-0000-4000-8000-000000000002")
	orderID    = uuid.MustParse("9a9a9a9a-0000-4000-8000-000000000009")
)

// fakeBackend plays the shop service behind the gateway.
type fakeBackend struct {
	mu            sync.Mutex
	products      map[uuid.UUID]productResponse.Product
	coupons       map[string]decimal.Decimal
	shippingCalls int
	placeStatus   int
	placed        []orderRequest.Checkout
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: map[uuid.UUID]productResponse.Product{
			toteID:  {ID: toteID, Name: "Tote", Price: decimal.NewFromInt(100), Quantity: 10, Images: []string{"/uploads/tote.jpg"}},
			pouchID: {ID: pouchID, Name: "Pouch", Price: decimal.NewFromInt(50), Quantity: 10},
		},
		coupons:     map[string]decimal.Decimal{"TEN": decimal.NewFromInt(10)},
		placeStatus: http.StatusCreated,
	}
}

func envelope(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    statusCode < http.StatusBadRequest,
		"statusCode": statusCode,
		"message":    message,
		"data":       data,
	})
}

func (b *fakeBackend) router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/bag-collections/get/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		product, ok := b.products[uuid.MustParse(mux.Vars(r)["id"])]
		if !ok {
			envelope(w, http.StatusNotFound, "product not found", nil)
			return
		}
		envelope(w, http.StatusOK, "product found", product)
	}).Methods(http.MethodGet)
	router.HandleFunc("/coupons/apply", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		body := couponRequest.ApplyCoupon{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		discount, ok := b.coupons[body.Code]
		if !ok {
			envelope(w, http.StatusUnprocessableEntity, "coupon is invalid", nil)
			return
		}
		envelope(w, http.StatusOK, "coupon applied", couponResponse.AppliedCoupon{
			Code:     body.Code,
			Discount: discount,
			Total:    body.OrderTotal.Sub(discount),
		})
	}).Methods(http.MethodPost)
	router.HandleFunc("/shipping", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.shippingCalls++
		envelope(w, http.StatusOK, "shipping methods found", []orderResponse.ShippingMethod{
			{ID: standardID, Name: "Standard", Cost: decimal.NewFromInt(20), EstimatedDays: 5},
			{ID: expressID, Name: "Express", Cost: decimal.NewFromInt(25), EstimatedDays: 2},
		})
	}).Methods(http.MethodGet)
	router.HandleFunc("/checkout", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		body := orderRequest.Checkout{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if b.placeStatus >= http.StatusBadRequest {
			envelope(w, b.placeStatus, "product is out of stock", nil)
			return
		}
		b.placed = append(b.placed, body)
		envelope(w, http.StatusCreated, "order placed", orderResponse.Order{ID: orderID, Status: "pending"})
	}).Methods(http.MethodPost)
	router.HandleFunc("/checkout/getbyId", func(w http.ResponseWriter, r *http.Request) {
		body := orderRequest.GetOrderById{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.ID != orderID {
			envelope(w, http.StatusNotFound, "order not found", nil)
			return
		}
		envelope(w, http.StatusOK, "order found", orderResponse.Order{ID: orderID, Status: "pending"})
	}).Methods(http.MethodPost)
	return router
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

type fixture struct {
	backend  *fakeBackend
	carts    *storage.Memory
	shipping *storage.Memory
	service  *CartService
}

func setup(t *testing.T) (fixture, func()) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.router())

	client, err := gateway.NewClient(server.URL)
	if err != nil {
		t.Fatalf("failed creating gateway client with error: %s", err)
	}

	carts := storage.NewMemory()
	shipping := storage.NewMemory()
	return fixture{
		backend:  backend,
		carts:    carts,
		shipping: shipping,
		service:  NewCartService(carts, shipping, client, pricing.DefaultTaxRate),
	}, server.Close
}

func validForm() orderRequest.CheckoutForm {
	return orderRequest.CheckoutForm{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "+62 812 3456 7890",
		ShippingAddress: orderRequest.Address{
			Line1:      "Jl. Sudirman 1",
			City:       "Jakarta",
			PostalCode: "10110",
			Country:    "ID",
		},
		PaymentMethod: "cod",
	}
}
