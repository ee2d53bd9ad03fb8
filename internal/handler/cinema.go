package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
	"github.com/iliyamo/cinema-screening-booking/internal/service"
)

// CinemaHandler exposes the BookingService over HTTP under /api/cinema.
type CinemaHandler struct {
	Booking *service.BookingService // Booking executes every screening operation
}

// NewCinemaHandler constructs a CinemaHandler and panics if the service is nil.
func NewCinemaHandler(booking *service.BookingService) *CinemaHandler {
	if booking == nil {
		panic("nil booking service passed to NewCinemaHandler")
	}
	return &CinemaHandler{Booking: booking}
}

// ----- DTOs -----

type createScreeningReq struct {
	Title         string `json:"title" validate:"notblank"`
	StartTime     string `json:"startTime"`
	NumberOfSeats int    `json:"numberOfSeats" validate:"min=20"`
}

type reserveSeatsReq struct {
	NumberOfSeats int `json:"numberOfSeats" validate:"min=1"`
}

type updateDateReq struct {
	Date string `json:"date" validate:"required"`
}

// ListScreenings handles GET /api/cinema and returns every screening,
// optionally narrowed with ?title= (case-insensitive exact match).  A title
// parameter that is present but empty matches nothing.
func (h *CinemaHandler) ListScreenings(c echo.Context) error {
	var title *string
	if q := c.QueryParams(); q.Has("title") {
		t := q.Get("title")
		title = &t
	}
	out, err := h.Booking.ListScreenings(c.Request().Context(), title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GetScreening handles GET /api/cinema/:id.
func (h *CinemaHandler) GetScreening(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	view, err := h.Booking.GetScreening(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// CreateScreening handles POST /api/cinema and responds 201 with the stored
// screening, including its generated id.
func (h *CinemaHandler) CreateScreening(c echo.Context) error {
	var req createScreeningReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	var start model.LocalDateTime
	if req.StartTime != "" { // start time is optional, as in the booking rules
		parsed, err := model.ParseLocalDateTime(req.StartTime)
		if err != nil {
			return service.NewValidationError(service.Violation{Field: "startTime", Message: err.Error()})
		}
		start = parsed
	}
	view, err := h.Booking.CreateScreening(c.Request().Context(), service.CreateScreeningCommand{
		Title:         req.Title,
		StartTime:     start.Time,
		NumberOfSeats: req.NumberOfSeats,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// ReserveSeats handles POST /api/cinema/:id/reserve.  Asking for more seats
// than are free yields 400 and leaves the screening unchanged.
func (h *CinemaHandler) ReserveSeats(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req reserveSeatsReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.Booking.ReserveSeats(c.Request().Context(), id, service.ReserveSeatsCommand{NumberOfSeats: req.NumberOfSeats})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateStartTime handles PUT /api/cinema/:id with a {"date": ...} body.
func (h *CinemaHandler) UpdateStartTime(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateDateReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := model.ParseLocalDateTime(req.Date)
	if err != nil {
		return service.NewValidationError(service.Violation{Field: "date", Message: err.Error()})
	}
	view, err := h.Booking.UpdateStartTime(c.Request().Context(), id, service.UpdateStartTimeCommand{Date: date.Time})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ClearScreenings handles DELETE /api/cinema and responds 204.
func (h *CinemaHandler) ClearScreenings(c echo.Context) error {
	if err := h.Booking.ClearAll(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, service.NewValidationError(service.Violation{Field: "id", Message: "must be a number"})
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the registered
// validator.  Decoding failures are reported as validation errors; a type
// mismatch names the offending field.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return err
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return service.NewValidationError(service.Violation{
				Field:   typeErr.Field,
				Message: "must be of type " + typeErr.Type.String(),
			})
		}
		return &service.Error{Kind: service.KindValidation, Message: "Malformed JSON request body"}
	}
	return c.Validate(req)
}
