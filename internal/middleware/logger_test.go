package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger_Levels(t *testing.T) {
	logger, hook := test.NewNullLogger()

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/bad", func(echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest) })
	e.GET("/boom", func(echo.Context) error { return errors.New("boom") })

	tests := []struct {
		path   string
		status int
		level  logrus.Level
	}{
		{"/ok", http.StatusOK, logrus.InfoLevel},
		{"/bad", http.StatusBadRequest, logrus.WarnLevel},
		{"/boom", http.StatusInternalServerError, logrus.ErrorLevel},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			hook.Reset()
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, tc.status, rec.Code)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tc.level, entry.Level)
			assert.Equal(t, tc.status, entry.Data["status"])
			assert.Equal(t, tc.path, entry.Data["uri"])
		})
	}
}
