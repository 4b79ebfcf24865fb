package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origins        []string
		method         string
		origin         string
		expectedStatus int
		expectedAllow  string
	}{
		{
			name:           "preflight from the local front-end",
			method:         http.MethodOptions,
			origin:         "http://localhost:3000",
			expectedStatus: http.StatusNoContent,
			expectedAllow:  "http://localhost:3000",
		},
		{
			name:           "configured origin",
			origins:        []string{"https://print.campus.test"},
			method:         http.MethodGet,
			origin:         "https://print.campus.test",
			expectedStatus: http.StatusOK,
			expectedAllow:  "https://print.campus.test",
		},
		{
			name:           "unknown origin is refused",
			origins:        []string{"https://print.campus.test"},
			method:         http.MethodGet,
			origin:         "https://evil.test",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "same-origin request passes",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.origins))
			router.GET("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
