package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/backend"
	"github.com/swiftbuy/storefront/internal/config"
	"github.com/swiftbuy/storefront/internal/domain"
	"github.com/swiftbuy/storefront/internal/pricing"
	"github.com/swiftbuy/storefront/internal/repository"
	"github.com/swiftbuy/storefront/internal/service"
)

type backendCall struct {
	Method    string
	Path      string
	Auth      string
	RequestID string
	Body      string
}

type memoryEvents struct {
	events []*domain.SubmissionEvent
}

func (m *memoryEvents) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	event.ID = uuid.New()
	event.CreatedAt = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	m.events = append(m.events, event)
	return nil
}

func (m *memoryEvents) ListByCode(ctx context.Context, code string, limit int) ([]*domain.SubmissionEvent, error) {
	var out []*domain.SubmissionEvent
	for _, e := range m.events {
		if e.CouponCode == code && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

// newTestRouter wires the real services to a stub backend answering
// every request with the given handler
func newTestRouter(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*gin.Engine, <-chan backendCall, *memoryEvents) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	calls := make(chan backendCall, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls <- backendCall{
			Method:    r.Method,
			Path:      r.URL.Path,
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get(backend.HeaderRequestID),
			Body:      string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Environment: "test",
		Backend:     config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second},
	}
	logger := zap.NewNop()
	client := backend.NewClient(cfg.Backend, logger)
	events := &memoryEvents{}
	repos := &repository.Repositories{SubmissionEvent: events}

	router := NewRouter(cfg, Services{
		Pricing: service.NewPricingService(client, pricing.NewCalculator(pricing.DefaultShippingFee), logger),
		Coupons: service.NewCouponService(client, repos, logger),
	}, logger)

	return router, calls, events
}

func doRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

var adminAuth = map[string]string{"Authorization": "Bearer admin-jwt"}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	rr := doRequest(router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(backend.HeaderRequestID))
}

func TestRequiresBearerToken(t *testing.T) {
	router, calls, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/v1/cart/pricing", "/v1/admin/coupons"} {
		rr := doRequest(router, http.MethodGet, path, "", map[string]string{"Authorization": "Basic abc"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
	assert.Len(t, calls, 0)
}

func TestCartPricing(t *testing.T) {
	router, calls, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"cartItems":[
			{"id":1,"quantity":2,"mrpPrice":1000,"sellingPrice":800,"product":{"id":5,"title":"Saree","mrpPrice":500,"sellingPrice":400}},
			{"id":2,"quantity":1,"mrpPrice":300,"sellingPrice":300,"product":{"id":6,"title":"Dupatta","mrpPrice":300,"sellingPrice":300}}
		]}`))
	})

	rr := doRequest(router, http.MethodGet, "/v1/cart/pricing", "", map[string]string{
		"Authorization":         "Bearer user-jwt",
		backend.HeaderRequestID: "trace-1",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	call := <-calls
	assert.Equal(t, "/api/cart", call.Path)
	assert.Equal(t, "Bearer user-jwt", call.Auth)
	assert.Equal(t, "trace-1", call.RequestID)
	assert.Equal(t, "trace-1", rr.Header().Get(backend.HeaderRequestID))

	var body struct {
		Breakdown map[string]json.RawMessage `json:"breakdown"`
		Lines     []struct {
			Label string `json:"label"`
			Value string `json:"value"`
		} `json:"lines"`
		Anomaly bool `json:"anomaly"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, `"1179"`, string(body.Breakdown["total"]))
	assert.Equal(t, `"200"`, string(body.Breakdown["discount"]))
	require.Len(t, body.Lines, 5)
	assert.Equal(t, "₹ 1179", body.Lines[4].Value)
	assert.False(t, body.Anomaly)
}

func TestCreateCoupon(t *testing.T) {
	router, calls, events := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":12,"active":true,"code":"SAVE10","discountPercentage":10,
			"validityStartDate":"2026-11-01T00:00:00.000Z","validityEndDate":"2026-11-30T00:00:00.000Z","minimumOrderValue":500}`))
	})

	rr := doRequest(router, http.MethodPost, "/v1/admin/coupons", `{
		"code": "SAVE10",
		"discountPercentage": 10,
		"validityStartDate": "2026-11-01",
		"validityEndDate": "2026-11-30",
		"minimumOrderValue": "500"
	}`, adminAuth)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	call := <-calls
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/api/admin/coupons", call.Path)
	assert.Equal(t, "Bearer admin-jwt", call.Auth)
	assert.JSONEq(t, `{
		"code": "SAVE10",
		"discountPercentage": 10,
		"validityStartDate": "2026-11-01T00:00:00.000Z",
		"validityEndDate": "2026-11-30T00:00:00.000Z",
		"minimumOrderValue": 500
	}`, call.Body)

	assert.JSONEq(t, `{
		"message": "Coupon created successfully",
		"coupon": {
			"id": 12,
			"code": "SAVE10",
			"discountPercentage": "10",
			"validityStartDate": "2026-11-01T00:00:00.000Z",
			"validityEndDate": "2026-11-30T00:00:00.000Z",
			"minimumOrderValue": "500"
		}
	}`, rr.Body.String())

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.SubmissionStatusSucceeded, events.events[0].Status)
	assert.Equal(t, rr.Header().Get(backend.HeaderRequestID), events.events[0].RequestID)
}

func TestCreateCouponValidationErrors(t *testing.T) {
	router, calls, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	rr := doRequest(router, http.MethodPost, "/v1/admin/coupons", `{
		"code": "AB",
		"discountPercentage": 10,
		"validityStartDate": "2026-12-01",
		"validityEndDate": "2026-11-01",
		"minimumOrderValue": 500
	}`, adminAuth)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{
		"error": "validation failed",
		"fields": {
			"code": "Code should be at least 3 characters",
			"validityEndDate": "End date cannot be before the start date"
		}
	}`, rr.Body.String())
	assert.Len(t, calls, 0)
}

func TestCreateCouponBackendRejection(t *testing.T) {
	router, _, events := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Coupon with code SAVE10 already exists"}`))
	})

	rr := doRequest(router, http.MethodPost, "/v1/admin/coupons", `{
		"code": "SAVE10", "discountPercentage": "10",
		"validityStartDate": "2026-11-01", "validityEndDate": "2026-11-30",
		"minimumOrderValue": 500
	}`, adminAuth)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Coupon with code SAVE10 already exists"}`, rr.Body.String())
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.SubmissionStatusFailed, events.events[0].Status)

	rr = doRequest(router, http.MethodGet, "/v1/admin/coupons/SAVE10/submissions?limit=5", "", adminAuth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"FAILED"`)
	assert.Contains(t, rr.Body.String(), `"created_at":"2026-10-19T09:00:00.000Z"`)
}

func TestCreateCouponBackendServerError(t *testing.T) {
	router, _, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Something went wrong"}`))
	})

	rr := doRequest(router, http.MethodPost, "/v1/admin/coupons", `{
		"code": "SAVE10", "discountPercentage": 10,
		"validityStartDate": "2026-11-01", "validityEndDate": "2026-11-30",
		"minimumOrderValue": 500
	}`, adminAuth)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, rr.Body.String())
}

func TestCreateCouponMalformedBody(t *testing.T) {
	router, _, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	rr := doRequest(router, http.MethodPost, "/v1/admin/coupons", `{"code":`, adminAuth)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListCoupons(t *testing.T) {
	router, _, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":3,"active":false,"code":"OLD5","discountPercentage":5,
			"validityStartDate":"2025-01-01T00:00:00.000Z","validityEndDate":"2025-02-01T00:00:00.000Z","minimumOrderValue":100}]`))
	})

	rr := doRequest(router, http.MethodGet, "/v1/admin/coupons", "", adminAuth)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"total": 1,
		"coupons": [{
			"id": 3,
			"code": "OLD5",
			"discountPercentage": "5",
			"validityStartDate": "2025-01-01T00:00:00.000Z",
			"validityEndDate": "2025-02-01T00:00:00.000Z",
			"minimumOrderValue": "100",
			"active": false
		}]
	}`, rr.Body.String())
}

func TestListSubmissionsBadLimit(t *testing.T) {
	router, _, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	rr := doRequest(router, http.MethodGet, "/v1/admin/coupons/SAVE10/submissions?limit=500", "", adminAuth)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListSubmissionsChecksTokenWithBackend(t *testing.T) {
	router, calls, events := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-jwt" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	require.NoError(t, events.Create(context.Background(), &domain.SubmissionEvent{
		CouponCode: "SAVE10",
		Status:     domain.SubmissionStatusSucceeded,
	}))

	rr := doRequest(router, http.MethodGet, "/v1/admin/coupons/SAVE10/submissions", "",
		map[string]string{"Authorization": "Bearer anything"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rr.Body.String())
	call := <-calls
	assert.Equal(t, "/api/admin/coupons", call.Path)
	assert.Equal(t, "Bearer anything", call.Auth)

	rr = doRequest(router, http.MethodGet, "/v1/admin/coupons/SAVE10/submissions", "", adminAuth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"SUCCEEDED"`)
}
