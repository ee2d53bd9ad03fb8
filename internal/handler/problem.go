package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-screening-booking/internal/service"
)

// ProblemContentType is the media type of every error response.
const ProblemContentType = "application/problem+json"

// Problem is the structured error payload written for every 4xx and 5xx
// response.
type Problem struct {
	Type       string              `json:"type"`
	Title      string              `json:"title"`
	Status     int                 `json:"status"`
	Detail     string              `json:"detail,omitempty"`
	Violations []service.Violation `json:"violation,omitempty"`
}

// problemFor maps a service error kind onto its problem payload.  Errors
// that are not service errors become a 500.
func problemFor(err error) Problem {
	var se *service.Error
	if !errors.As(err, &se) {
		return Problem{
			Type:   "cinema/internal-error",
			Title:  "Internal server error",
			Status: http.StatusInternalServerError,
			Detail: "unexpected error",
		}
	}
	switch se.Kind {
	case service.KindNotFound:
		return Problem{Type: "cinema/not-found", Title: "Not found", Status: http.StatusNotFound, Detail: se.Message}
	case service.KindCapacityExceeded:
		return Problem{Type: "cinema/bad-reservation", Title: "Bad reservation", Status: http.StatusBadRequest, Detail: se.Message}
	default:
		return Problem{
			Type:       "cinema/validation-error",
			Title:      "Cinema validation error",
			Status:     http.StatusBadRequest,
			Detail:     se.Message,
			Violations: se.Violations,
		}
	}
}

func writeProblem(c echo.Context, p Problem) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.Blob(p.Status, ProblemContentType, body)
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders service
// errors and framework errors (unknown route, wrong method, rate limiting)
// as problems.  5xx responses are logged.
func NewHTTPErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var p Problem
		var he *echo.HTTPError
		var se *service.Error
		switch {
		case errors.As(err, &se):
			p = problemFor(se)
		case errors.As(err, &he):
			p = Problem{
				Type:   "cinema/" + slug(he.Code),
				Title:  http.StatusText(he.Code),
				Status: he.Code,
				Detail: fmt.Sprint(he.Message),
			}
		default:
			p = problemFor(err)
		}

		if p.Status >= http.StatusInternalServerError {
			logger.WithError(err).WithField("uri", c.Request().RequestURI).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(p.Status)
		} else {
			err = writeProblem(c, p)
		}
		if err != nil {
			logger.WithError(err).Warn("failed to write error response")
		}
	}
}

func slug(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not-found"
	case http.StatusMethodNotAllowed:
		return "method-not-allowed"
	case http.StatusTooManyRequests:
		return "too-many-requests"
	case http.StatusBadRequest:
		return "bad-request"
	case http.StatusUnsupportedMediaType:
		return "unsupported-media-type"
	}
	if code >= http.StatusInternalServerError {
		return "internal-error"
	}
	return fmt.Sprintf("http-%d", code)
}
