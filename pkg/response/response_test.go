package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradepost/pkg/errors"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSuccessEnvelope(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Success(c, map[string]int{"count": 3}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestErrorUsesAppErrorStatusAndCode(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Error(c, apperrors.BadRequest("Message content is required", nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"BAD_REQUEST"`)
	assert.Contains(t, rec.Body.String(), "Message content is required")
}

func TestErrorCarriesCooldownHint(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Error(c, apperrors.RateLimited("Cooling down", 90000)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cooldown_ms":90000`)
}

func TestUnknownErrorBecomesInternal(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Error(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)
}
