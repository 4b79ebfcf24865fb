//go:build contract

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func assertSuccessEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID, "Response must include request_id")
	assert.NotZero(t, resp.Timestamp, "Response must include timestamp")
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data must be an object")
	return data
}

func assertErrorEnvelope(t *testing.T, w *httptest.ResponseRecorder, code string) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, code, resp.Error)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.RequestID)
	assert.NotZero(t, resp.Timestamp)
	return resp
}

// TestAPI_ContractCompliance checks the documented request and response
// shapes of the storefront endpoints.
func TestAPI_ContractCompliance(t *testing.T) {
	s := newStorefront(t)

	tests := []struct {
		name             string
		method           string
		path             string
		body             string
		expectedStatus   int
		validateResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "GET /api/pricing/table - Success 200",
			method:         http.MethodGet,
			path:           "/api/pricing/table",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				data := assertSuccessEnvelope(t, w)
				for _, field := range []string{"version", "currency", "monochrome_rate", "colored_rate", "binding_rates", "delivery_rate"} {
					assert.Contains(t, data, field)
				}
				assert.IsType(t, "", data["monochrome_rate"], "money is rendered as a string")
				rates, ok := data["binding_rates"].(map[string]interface{})
				require.True(t, ok)
				for _, binding := range []string{"none", "comb", "slide", "tape"} {
					assert.Contains(t, rates, binding)
				}
			},
		},
		{
			name:           "POST /api/pricing/quote - Success 200",
			method:         http.MethodPost,
			path:           "/api/pricing/quote",
			body:           `{"page_count":10,"print_color":"colored","binding":"comb","campus_delivery":true}`,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				data := assertSuccessEnvelope(t, w)
				assert.Equal(t, "GHC", data["currency"])
				assert.Equal(t, "GHC 27.00", data["total"])
				breakdown, ok := data["breakdown"].(map[string]interface{})
				require.True(t, ok)
				for _, field := range []string{"base_cost", "binding_cost", "delivery_cost", "total_cost"} {
					assert.Contains(t, breakdown, field)
				}
			},
		},
		{
			name:           "POST /api/pricing/quote - Error 400 Invalid JSON",
			method:         http.MethodPost,
			path:           "/api/pricing/quote",
			body:           `invalid json`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorEnvelope(t, w, dto.ErrCodeInvalidRequest)
			},
		},
		{
			name:           "POST /api/pricing/quote - Error 400 Invalid Input",
			method:         http.MethodPost,
			path:           "/api/pricing/quote",
			body:           `{"page_count":2,"binding":"staple"}`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := assertErrorEnvelope(t, w, dto.ErrCodeInvalidRequest)
				assert.Contains(t, resp.Details, "binding")
			},
		},
		{
			name:           "POST /api/sessions - Success 201",
			method:         http.MethodPost,
			path:           "/api/sessions",
			expectedStatus: http.StatusCreated,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				data := assertSuccessEnvelope(t, w)
				assert.NotEmpty(t, data["session_id"])
				assert.Equal(t, "upload", data["step"])
				assert.Equal(t, false, data["in_flight"])
				assert.NotContains(t, data, "total", "an unpriced draft has no total")
				draft, ok := data["draft"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "monochrome", draft["print_color_mode"])
				assert.Equal(t, "none", draft["binding"])
			},
		},
		{
			name:           "GET /api/sessions/{id} - Error 404",
			method:         http.MethodGet,
			path:           "/api/sessions/does-not-exist",
			expectedStatus: http.StatusNotFound,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorEnvelope(t, w, dto.ErrCodeNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			if tt.validateResponse != nil {
				tt.validateResponse(t, w)
			}
		})
	}
}

// TestAPI_StepRequirementsContract checks that a refused step names what is
// missing.
func TestAPI_StepRequirementsContract(t *testing.T) {
	s := newStorefront(t)
	id := s.start(t)

	w := s.do(t, http.MethodPost, "/api/sessions/"+id+"/proceed", "")

	require.Equal(t, http.StatusConflict, w.Code)
	resp := assertErrorEnvelope(t, w, dto.ErrCodeConflict)
	require.Contains(t, resp.Details, "missing")
	assert.NotEmpty(t, resp.Details["missing"])
}

// TestAPI_ResponseSchema checks the health endpoints' shape.
func TestAPI_ResponseSchema(t *testing.T) {
	s := newStorefront(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		t.Run(path, func(t *testing.T) {
			w := s.do(t, http.MethodGet, path, "")

			require.Equal(t, http.StatusOK, w.Code)
			body := decodeObject(t, w)
			assert.Equal(t, "ok", body["status"])
		})
	}
}

func TestAPI_Headers(t *testing.T) {
	s := newStorefront(t)

	tests := []struct {
		name    string
		path    string
		headers []string
		check   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "X-Request-ID header present",
			path: "/api/pricing/table",
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
			},
		},
		{
			name:    "caller request ID echoed",
			path:    "/api/pricing/table",
			headers: []string{middleware.RequestIDHeader, "desk-req-0042"},
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "desk-req-0042", w.Header().Get(middleware.RequestIDHeader))
				assert.Equal(t, "desk-req-0042", decodeObject(t, w)["request_id"])
			},
		},
		{
			name:    "CORS origin allowed",
			path:    "/api/pricing/table",
			headers: []string{"Origin", "http://localhost:3000"},
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, "", tt.headers...)
			require.Equal(t, http.StatusOK, w.Code)
			tt.check(t, w)
		})
	}
}
