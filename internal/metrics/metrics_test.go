package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestObserveRevealAndTransition(t *testing.T) {
	ObserveReveal(1, 3)
	ObserveReveal(2, 0)
	ObserveTransition(4)

	body := scrape(t)
	assert.Contains(t, body, `quest_letters_revealed_total{stage="1"}`)
	assert.NotContains(t, body, `quest_letters_revealed_total{stage="2"}`)
	assert.Contains(t, body, `quest_stage_transitions_total{stage="4"}`)
}

func TestMiddlewareLabelsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for _, path := range []string{"/ping", "/nowhere"} {
		req, _ := http.NewRequest("GET", path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	body := scrape(t)
	assert.Contains(t, body, `http_requests_total{endpoint="/ping",method="GET",status="200"}`)
	assert.Contains(t, body, `http_requests_total{endpoint="unmatched",method="GET",status="404"}`)
}
