package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping", func(c *gin.Context) {
		*capture = Value(c)
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestMiddlewareEchoesIncomingID(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(Header, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(Header))
	assert.Equal(t, "req-42", seen)
}

func TestMiddlewareMintsIDWhenAbsent(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	minted := w.Header().Get(Header)
	require.NotEmpty(t, minted)
	assert.Equal(t, minted, seen)
	_, err := uuid.Parse(minted)
	assert.NoError(t, err)
}
