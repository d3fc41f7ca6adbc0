package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCompression(t *testing.T) {
	body := strings.Repeat("Aloe Vera ", 200)

	router := gin.New()
	router.Use(Compression("/cart/events"))
	router.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, body)
	})
	router.GET("/cart/events", func(c *gin.Context) {
		c.String(http.StatusOK, body)
	})

	tests := []struct {
		name         string
		path         string
		acceptGzip   bool
		wantEncoding string
	}{
		{name: "compresses when accepted", path: "/products", acceptGzip: true, wantEncoding: "gzip"},
		{name: "plain when not accepted", path: "/products", acceptGzip: false, wantEncoding: ""},
		{name: "excluded streaming path", path: "/cart/events", acceptGzip: true, wantEncoding: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptGzip {
				req.Header.Set("Accept-Encoding", "gzip")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantEncoding, w.Header().Get("Content-Encoding"))
			if tt.wantEncoding == "" {
				assert.Equal(t, body, w.Body.String())
			} else {
				assert.Less(t, w.Body.Len(), len(body))
			}
		})
	}
}
