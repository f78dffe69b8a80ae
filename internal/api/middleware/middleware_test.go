package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalayer/internal/logger"
)

const storefront = "https://shop.example.com"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handler gin.HandlerFunc, origins ...string) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(logger.NewNop()))
	router.Use(CORS(origins))
	router.POST("/events", handler)
	return router
}

func ok(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": []string{}}) }

func TestCORSWildcardEchoesOriginForCredentials(t *testing.T) {
	router := newRouter(ok, "*")

	preflight := httptest.NewRequest(http.MethodOptions, "/events", nil)
	preflight.Header.Set("Origin", storefront)
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, storefront, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("Origin", storefront)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, storefront, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSListedOriginsOnly(t *testing.T) {
	router := newRouter(ok, storefront)

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryAnswersJSON(t *testing.T) {
	router := newRouter(func(*gin.Context) { panic("nil cart") }, storefront)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
}

func TestRecoveryIgnoresDroppedConnections(t *testing.T) {
	router := newRouter(func(*gin.Context) {
		panic(&net.OpError{Op: "write", Net: "tcp", Err: os.NewSyscallError("write", syscall.EPIPE)})
	}, storefront)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", nil))

	assert.Empty(t, rec.Body.String())
}
