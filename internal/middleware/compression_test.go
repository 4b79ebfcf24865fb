package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCompression(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name             string
		path             string
		acceptEncoding   string
		expectCompressed bool
	}{
		{
			name:             "compresses API responses for gzip clients",
			path:             "/api/pricing/table",
			acceptEncoding:   "gzip, deflate",
			expectCompressed: true,
		},
		{
			name:           "plain response without Accept-Encoding",
			path:           "/api/pricing/table",
			acceptEncoding: "",
		},
		{
			name:           "metrics are never compressed",
			path:           "/metrics",
			acceptEncoding: "gzip",
		},
		{
			name:           "PDF files are never compressed",
			path:           "/files/thesis.pdf",
			acceptEncoding: "gzip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Compression())
			handler := func(c *gin.Context) { c.String(http.StatusOK, "response body") }
			router.GET("/api/pricing/table", handler)
			router.GET("/metrics", handler)
			router.GET("/files/:name", handler)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			if tt.expectCompressed {
				assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			} else {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.Equal(t, "response body", w.Body.String())
			}
		})
	}
}
