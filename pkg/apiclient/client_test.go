package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	routes   []string
}

func (o *recordingObserver) ObserveBackendCall(_, route, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, route)
	o.outcomes = append(o.outcomes, outcome)
}

func newBackend(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestDoDecodesSuccessBody(t *testing.T) {
	srv := newBackend(t, func(r *gin.Engine) {
		r.POST("/api/students", func(c *gin.Context) {
			var body map[string]string
			_ = c.ShouldBindJSON(&body)
			c.JSON(http.StatusCreated, gin.H{"student_id": body["student_id"]})
		})
	})
	observer := &recordingObserver{}
	client := New(Options{BaseURL: srv.URL + "/", Observer: observer})

	var out struct {
		StudentID string `json:"student_id"`
	}
	err := client.Post(context.Background(), "/api/students", "/api/students", map[string]string{"student_id": "STU2025001"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "STU2025001", out.StudentID)
	assert.Equal(t, []string{"success"}, observer.outcomes)
}

func TestDoPrefersServerMessage(t *testing.T) {
	srv := newBackend(t, func(r *gin.Engine) {
		r.DELETE("/api/students/:id", func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"message": "cannot delete student with existing enrollments"})
		})
	})
	observer := &recordingObserver{}
	client := New(Options{BaseURL: srv.URL, Observer: observer})

	err := client.Delete(context.Background(), "/api/students/{id}", "/api/students/STU1", nil)

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRemote.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "cannot delete student with existing enrollments", appErr.Message)
	assert.Equal(t, []string{"/api/students/{id}"}, observer.routes)
	assert.Equal(t, []string{"remote_error"}, observer.outcomes)
}

func TestDoFallsBackToGenericMessage(t *testing.T) {
	srv := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/students", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "<html>oops</html>")
		})
	})
	client := New(Options{BaseURL: srv.URL})

	err := client.Get(context.Background(), "", "api/students", nil)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRemote.Code, appErr.Code)
	assert.Equal(t, "request failed with status 500", appErr.Message)
}

func TestDoClassifiesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	observer := &recordingObserver{}
	client := New(Options{BaseURL: base, Timeout: time.Second, Observer: observer})

	err := client.Get(context.Background(), "/api/students", "/api/students", nil)

	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNetwork.Code))
	assert.Equal(t, appErrors.MessageNetwork, appErrors.DisplayMessage(err))
	assert.Equal(t, []string{"network_error"}, observer.outcomes)
}

func TestDoRejectsUndecodableSuccess(t *testing.T) {
	srv := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/students", func(c *gin.Context) {
			c.String(http.StatusOK, "not json")
		})
	})
	client := New(Options{BaseURL: srv.URL})

	var out []map[string]interface{}
	err := client.Get(context.Background(), "/api/students", "/api/students", &out)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRemote.Code, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.Equal(t, "unexpected response from server", appErr.Message)
	assert.False(t, appErrors.HasCode(err, appErrors.ErrNetwork.Code))
}

func TestDoMakesExactlyOneAttempt(t *testing.T) {
	var calls int
	srv := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/students", func(c *gin.Context) {
			calls++
			c.Status(http.StatusServiceUnavailable)
		})
	})
	client := New(Options{BaseURL: srv.URL})

	_ = client.Get(context.Background(), "/api/students", "/api/students", nil)

	assert.Equal(t, 1, calls)
}

func TestServerMessageShapes(t *testing.T) {
	assert.Equal(t, "plain", ServerMessage([]byte(`{"message":"plain"}`)))
	assert.Equal(t, "as string", ServerMessage([]byte(`{"error":"as string"}`)))
	assert.Equal(t, "nested", ServerMessage([]byte(`{"error":{"code":"X","message":"nested"}}`)))
	assert.Equal(t, "", ServerMessage([]byte(`[]`)))
	assert.Equal(t, "", ServerMessage([]byte(`{}`)))
}
