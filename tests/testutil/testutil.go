// Package testutil holds the shared fixtures of the handler, service and
// router tests: an in-memory store, gin contexts, JSON request helpers and an
// event recorder.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestContext is a gin context bound to a response recorder, for calling a
// handler method directly without routing.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// NewTestContext creates a context for an empty GET /.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	return NewTestContextWithRequest(t, http.MethodGet, "/", nil)
}

// NewTestContextWithRequest creates a context for req, or for an empty
// method/path request when req is nil.
func NewTestContextWithRequest(t *testing.T, method, path string, req *http.Request) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if req == nil {
		req = httptest.NewRequest(method, path, nil)
	}
	c.Request = req

	return &TestContext{Context: c, Recorder: w}
}

// SetRequestID stores a request ID the way the RequestID middleware does.
func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set("request_id", id)
}
