package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// DefaultUncompressedPaths are served without gzip: Prometheus negotiates
// its own encoding and the Swagger UI assets are already minified.
var DefaultUncompressedPaths = []string{"/metrics", "/swagger/"}

// Compression gzips responses for clients that accept it. PDF responses and
// the paths in excludedPaths are sent as is.
func Compression(excludedPaths ...string) gin.HandlerFunc {
	if len(excludedPaths) == 0 {
		excludedPaths = DefaultUncompressedPaths
	}
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".pdf"}),
		gzip.WithExcludedPaths(excludedPaths),
	)
}
