package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func timeoutEngine(d time.Duration, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Timeout(TimeoutConfig{Duration: d}))
	engine.GET("/", handler)
	return engine
}

func TestTimeoutPassesFastRequests(t *testing.T) {
	engine := timeoutEngine(time.Second, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTimeoutAbortsSlowRequests(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	engine := timeoutEngine(10*time.Millisecond, func(c *gin.Context) {
		defer wg.Done()
		time.Sleep(50 * time.Millisecond)
		// Late write from the still-running handler; the deadline
		// response must not be disturbed by it.
		c.JSON(http.StatusOK, gin.H{"status": "late"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	wg.Wait()

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"message":"Request timeout"}`, w.Body.String())
}
