package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	return c, w
}

func TestMapValidation(t *testing.T) {
	status, body := Map(appErrors.Validation(appErrors.FieldViolation{Field: "name", Reason: "Item name is required."}))
	assert.Equal(t, http.StatusBadRequest, status)
	errBody, ok := body.(ErrorBody)
	require.True(t, ok)
	assert.Equal(t, "Item name is required.", errBody.Error)
	assert.Equal(t, "VALIDATION_ERROR", errBody.Code)
	assert.Len(t, errBody.Details, 1)
}

func TestMapNotFound(t *testing.T) {
	status, body := Map(fmt.Errorf("service: %w", appErrors.Clone(appErrors.ErrNotFound, "Item with ID 99 not found.")))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Item with ID 99 not found.", body.(ErrorBody).Error)
}

func TestMapUnknownErrorIsSanitised(t *testing.T) {
	status, body := Map(errors.New("pq: password authentication failed for user admin"))
	assert.Equal(t, http.StatusInternalServerError, status)
	problem, ok := body.(Problem)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrInternal.Message, problem.Title)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestErrorWritesProblemWithoutCause(t *testing.T) {
	c, w := newContext()
	Error(c, appErrors.Internal(errors.New("secret=abc123 leaked"), "Error retrieving inventory"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, problemContentType, w.Header().Get("Content-Type"))
	assert.NotContains(t, w.Body.String(), "abc123")

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "Error retrieving inventory", problem["title"])
	assert.EqualValues(t, 500, problem["status"])
	assert.True(t, c.IsAborted())
}

func TestErrorWritesClientBody(t *testing.T) {
	c, w := newContext()
	Error(c, appErrors.Clone(appErrors.ErrNotFound, "Item with ID 99 not found."))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Item with ID 99 not found.","code":"NOT_FOUND"}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestCreatedSetsLocation(t *testing.T) {
	c, w := newContext()
	Created(c, "/api/inventory/4", gin.H{"id": 4})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/inventory/4", w.Header().Get("Location"))
}
