package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(prometheus.NewRegistry(), "hms")

	r := gin.New()
	r.Use(h.Middleware())
	r.GET("/patients/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/metrics", h.Handler())

	for _, path := range []string{"/patients/1", "/patients/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(h.requestTotal.WithLabelValues("GET", "/patients/:id", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.errorTotal.WithLabelValues("GET", "/patients/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.requestTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hms_http_requests_total{method="GET",path="/patients/:id",status="404"} 2`)
}
