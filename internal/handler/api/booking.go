package api

import (
	"errors"
	"net/http"

	"localbiz-bookings/internal/domain/booking"
	reqdto "localbiz-bookings/internal/handler/dto/request"
	resdto "localbiz-bookings/internal/handler/dto/response"
	"localbiz-bookings/internal/handler/httperr"
	"localbiz-bookings/internal/handler/middleware"
	"localbiz-bookings/internal/pkg/errs"
	"localbiz-bookings/internal/usecase/commands"
	"localbiz-bookings/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Update booking status
// @Description Apply a lifecycle action (confirm, reject, cancel, complete) to a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingStatusRequest true "Status action"
// @Success 200 {object} resdto.BookingStatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("actor missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	var req reqdto.UpdateBookingStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.bookingCommands.UpdateStatus(c.Request.Context(), actor, id, commands.UpdateStatusRequest{
		Action:     booking.Action(req.Action),
		OwnerNotes: req.OwnerNotes,
		Reason:     req.Reason,
	})
	if err != nil {
		abortCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUpdateStatusResult(result))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("actor missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List business bookings
// @Description List bookings of a business, optionally filtered by date and status
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Business ID"
// @Param date query string false "Appointment date (YYYY-MM-DD)"
// @Param status query string false "Booking status"
// @Success 200 {array} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /businesses/{id}/bookings [get]
func (h *BookingHandler) ListBusinessBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("actor missing from context"), "Internal server error", nil)
		return
	}

	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid business ID format", nil)
		return
	}

	filters, err := parseBookingFilters(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	items, err := h.bookingQueries.ListForBusiness(c.Request.Context(), actor, businessID, filters)
	if err != nil {
		abortQueryError(c, err)
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

func parseBookingFilters(c *gin.Context) (queries.BookingFilters, error) {
	var filters queries.BookingFilters

	if dateStr := c.Query("date"); dateStr != "" {
		d, err := booking.ParseAppointmentDate(dateStr)
		if err != nil {
			return filters, errors.New("invalid date format, expected YYYY-MM-DD")
		}
		t := d.Time()
		filters.Date = &t
	}
	if status := c.Query("status"); status != "" {
		if !booking.Status(status).IsValid() {
			return filters, errors.New("invalid status filter")
		}
		filters.Status = &status
	}
	return filters, nil
}

// abortCommandError maps command sentinels onto HTTP statuses. The not-found
// cases come before authorization by construction: the usecases resolve the
// target first, so an unauthorized caller cannot probe resource existence
// beyond what a 404 already reveals.
func abortCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, commands.ErrBusinessNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Business not found", nil)
	case errors.Is(err, commands.ErrEntryNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Waitlist entry not found", nil)
	case errors.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Operation not permitted", nil)
	case errors.Is(err, commands.ErrAlreadyWaitlisted):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is already on the waitlist", nil)
	case errors.Is(err, commands.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status transition", nil)
	case errors.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func abortQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, queries.ErrBusinessNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Business not found", nil)
	case errors.Is(err, queries.ErrEntryNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Waitlist entry not found", nil)
	case errors.Is(err, queries.ErrAccessDenied):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Operation not permitted", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
