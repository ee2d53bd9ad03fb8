package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-screening-booking/internal/service"
)

func TestHTTPErrorHandler(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)
	e.GET("/boom", func(echo.Context) error { return errors.New("db exploded") })
	e.GET("/slow-down", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded, retry in 3s")
	})
	e.GET("/full", func(echo.Context) error { return service.ErrCapacityExceeded })
	e.HEAD("/missing", func(echo.Context) error { return service.ErrNotFound })

	tests := []struct {
		name   string
		method string
		path   string
		want   Problem
	}{
		{
			name:   "unexpected error",
			method: http.MethodGet,
			path:   "/boom",
			want: Problem{
				Type:   "cinema/internal-error",
				Title:  "Internal server error",
				Status: http.StatusInternalServerError,
				Detail: "unexpected error",
			},
		},
		{
			name:   "framework error",
			method: http.MethodGet,
			path:   "/slow-down",
			want: Problem{
				Type:   "cinema/too-many-requests",
				Title:  "Too Many Requests",
				Status: http.StatusTooManyRequests,
				Detail: "rate limit exceeded, retry in 3s",
			},
		},
		{
			name:   "service error",
			method: http.MethodGet,
			path:   "/full",
			want: Problem{
				Type:   "cinema/bad-reservation",
				Title:  "Bad reservation",
				Status: http.StatusBadRequest,
				Detail: "not enough free seats",
			},
		},
		{
			name:   "wrong method",
			method: http.MethodPost,
			path:   "/full",
			want: Problem{
				Type:   "cinema/method-not-allowed",
				Title:  "Method Not Allowed",
				Status: http.StatusMethodNotAllowed,
				Detail: "Method Not Allowed",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			require.Equal(t, tc.want.Status, rec.Code)
			assert.Equal(t, ProblemContentType, rec.Header().Get(echo.HeaderContentType))
			assert.JSONEq(t, mustJSON(t, tc.want), rec.Body.String())
		})
	}

	t.Run("head has no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func mustJSON(t *testing.T, p Problem) string {
	t.Helper()
	b, err := json.Marshal(p)
	require.NoError(t, err)
	return string(b)
}

func TestRequestValidator_Messages(t *testing.T) {
	v := NewRequestValidator()

	err := v.Validate(&createScreeningReq{Title: "Dune", NumberOfSeats: 20})
	require.NoError(t, err)

	err = v.Validate(&updateDateReq{})
	require.ErrorIs(t, err, service.ErrValidation)
	var se *service.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []service.Violation{{Field: "date", Message: "must not be null"}}, se.Violations)
}

func TestNewRequestValidator_NotBlank(t *testing.T) {
	var v *RequestValidator
	require.NotPanics(t, func() { v = NewRequestValidator() })

	for _, title := range []string{"", "   ", "\t\n"} {
		err := v.Validate(&createScreeningReq{Title: title, NumberOfSeats: 20})
		var se *service.Error
		require.True(t, errors.As(err, &se), "title %q", title)
		assert.Equal(t, []service.Violation{{Field: "title", Message: "must not be blank"}}, se.Violations)
	}
	assert.NoError(t, v.Validate(&createScreeningReq{Title: " Dune ", NumberOfSeats: 20}))
}
