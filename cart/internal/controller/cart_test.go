package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/cart/internal/service"
	"github.com/Alturino/bagstore/cart/internal/storage"
	"github.com/Alturino/bagstore/internal/gateway"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/middleware"
	productResponse "github.com/Alturino/bagstore/product/pkg/response"
	"github.com/Alturino/bagstore/pricing"
)

var toteID = uuid.MustParse("0b6f3c0e-5d0e-4a44-9a57-6d1f2c3a4b01")

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// backend answers the product lookup and nothing else, every other backend
// call fails with the generic envelope.
func backend(authorizations *[]string) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/bag-collections/get/{id}", func(w http.ResponseWriter, r *http.Request) {
		*authorizations = append(*authorizations, r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION))
		w.Header().Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
		if mux.Vars(r)["id"] != toteID.String() {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"statusCode":404,"message":"product not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"statusCode": http.StatusOK,
			"message":    "product found",
			"data": productResponse.Product{
				ID:       toteID,
				Name:     "Tote",
				Price:    decimal.NewFromInt(100),
				Quantity: 5,
			},
		})
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"statusCode":502}`))
	})
	return router
}

func setup(t *testing.T) (http.Handler, *[]string, func()) {
	authorizations := []string{}
	server := httptest.NewServer(backend(&authorizations))

	client, err := gateway.NewClient(server.URL, gateway.WithTokenSource(gateway.ForwardedToken()))
	require.NoError(t, err)

	svc := service.NewCartService(storage.NewMemory(), storage.NewMemory(), client, pricing.DefaultTaxRate)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano})

	router := mux.NewRouter()
	router.Use(middleware.Logging(logger), middleware.RecoverPanic, ForwardToken)
	AttachCartController(router, svc)
	return router, &authorizations, server.Close
}

func do(t *testing.T, handler http.Handler, method string, target string, body string, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	actual := envelope{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actual), "body=%s", w.Body.String())
	return w, actual
}

func TestSessionHeader(t *testing.T) {
	handler, _, teardown := setup(t)
	defer teardown()

	w, body := do(t, handler, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	created := w.Header().Get(inHttp.KEY_HEADER_CART_SESSION)
	_, err := uuid.Parse(created)
	assert.NoError(t, err, "a new session should be created when none is sent")

	session := uuid.NewString()
	w, _ = do(t, handler, http.MethodGet, "/cart", "", map[string]string{inHttp.KEY_HEADER_CART_SESSION: session})
	assert.Equal(t, session, w.Header().Get(inHttp.KEY_HEADER_CART_SESSION))

	w, body = do(t, handler, http.MethodGet, "/cart", "", map[string]string{inHttp.KEY_HEADER_CART_SESSION: "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, ErrInvalidSession.Error(), body.Message)
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name               string
		body               string
		expectedStatusCode int
		expectedMessage    string
		expectedCount      int
	}{
		{
			name:               "given known product should add it",
			body:               `{"productId":"` + toteID.String() + `","quantity":2}`,
			expectedStatusCode: http.StatusOK,
			expectedMessage:    "item added to cart",
			expectedCount:      2,
		},
		{
			name:               "given missing product id should reject the body",
			body:               `{"quantity":2}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedMessage:    "productId is required",
		},
		{
			name:               "given unknown product should pass the backend message on",
			body:               `{"productId":"` + uuid.NewString() + `","quantity":1}`,
			expectedStatusCode: http.StatusNotFound,
			expectedMessage:    "product not found",
		},
		{
			name:               "given malformed json should reject the body",
			body:               `{`,
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, teardown := setup(t)
			defer teardown()

			headers := map[string]string{inHttp.KEY_HEADER_CART_SESSION: uuid.NewString()}
			w, body := do(t, handler, http.MethodPost, "/cart/items", tt.body, headers)
			assert.Equal(t, tt.expectedStatusCode, w.Code)
			assert.Equal(t, tt.expectedStatusCode, body.StatusCode)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, body.Message)
			}
			if tt.expectedStatusCode != http.StatusOK {
				assert.False(t, body.Success)
				return
			}

			cart := struct {
				TotalCount int `json:"totalCount"`
			}{}
			require.NoError(t, json.Unmarshal(body.Data, &cart))
			assert.Equal(t, tt.expectedCount, cart.TotalCount)
		})
	}
}

func TestForwardToken(t *testing.T) {
	handler, authorizations, teardown := setup(t)
	defer teardown()

	headers := map[string]string{
		inHttp.KEY_HEADER_CART_SESSION:  uuid.NewString(),
		inHttp.KEY_HEADER_AUTHORIZATION: "Bearer customer-token",
	}
	w, _ := do(t, handler, http.MethodPost, "/cart/items", `{"productId":"`+toteID.String()+`"}`, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, *authorizations, 1)
	assert.Equal(t, "Bearer customer-token", (*authorizations)[0])
}

func TestCheckoutValidationResponse(t *testing.T) {
	handler, _, teardown := setup(t)
	defer teardown()

	headers := map[string]string{inHttp.KEY_HEADER_CART_SESSION: uuid.NewString()}
	w, body := do(t, handler, http.MethodPost, "/checkout", `{"form":{}}`, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)

	data := service.ValidationError{}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Contains(t, data.Errors, "form.email is required")
	assert.Contains(t, data.Errors, "shippingMethodId is required")
	assert.Contains(t, data.Errors, "cart is empty")
}

func TestItemRoutesRejectInvalidID(t *testing.T) {
	handler, _, teardown := setup(t)
	defer teardown()

	w, body := do(t, handler, http.MethodPost, "/cart/items/abc/increase", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
}

func TestOrderUnavailable(t *testing.T) {
	handler, _, teardown := setup(t)
	defer teardown()

	w, body := do(t, handler, http.MethodGet, "/checkout/orders/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.ErrOrderUnavailable.Error(), body.Message)
}
