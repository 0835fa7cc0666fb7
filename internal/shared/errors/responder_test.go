package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(path string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, path, nil)
	return c, rec
}

func TestRespondPrefixesBaseURI(t *testing.T) {
	c, rec := newTestContext("/api/v1/sales-cases/3/return")
	NewChainedResponder("https://backoffice.example/").Respond(c, ErrInvalidState.WithDetail("case 3 is returned"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "https://backoffice.example/problems/invalid-state", body.Type)
	assert.Equal(t, "/api/v1/sales-cases/3/return", body.Instance)
	assert.Equal(t, "case 3 is returned", body.Detail)
	assert.True(t, c.IsAborted())
}

func TestRespondErrorPassesProblemsThrough(t *testing.T) {
	c, rec := newTestContext("/api/v1/products")
	NewChainedResponder("").RespondError(c, ErrBadRequest.WithDetail("malformed body"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeBadRequest)
}

func TestRespondErrorHidesAndLogsUnmappedCause(t *testing.T) {
	var logs bytes.Buffer
	responder := NewChainedResponder("").WithLogger(slog.New(slog.NewJSONHandler(&logs, nil)))

	c, rec := newTestContext("/api/v1/orders")
	responder.RespondError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, logs.String(), "connection refused")
}

func TestWithExtensionDoesNotMutateTemplate(t *testing.T) {
	first := ErrInsufficientStock.WithExtension("productId", 1)
	second := first.WithExtension("requested", 5)
	assert.Nil(t, ErrInsufficientStock.Extensions)
	assert.Len(t, first.Extensions, 1)
	assert.Len(t, second.Extensions, 2)
}
