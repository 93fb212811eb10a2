package api

import (
	"context"
	"net/http"
	"time"

	"localbiz-bookings/internal/domain/access"
	"localbiz-bookings/internal/domain/booking"
	resdto "localbiz-bookings/internal/handler/dto/response"
	"localbiz-bookings/internal/handler/httperr"
	"localbiz-bookings/internal/handler/middleware"
	"localbiz-bookings/internal/pkg/errs"
	"localbiz-bookings/internal/usecase/commands"
	"localbiz-bookings/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	waitlistCommands commands.WaitlistCommands
	waitlistQueries  queries.WaitlistQueries
}

func NewWaitlistHandler(waitlistCommands commands.WaitlistCommands, waitlistQueries queries.WaitlistQueries) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistCommands: waitlistCommands,
		waitlistQueries:  waitlistQueries,
	}
}

// @Summary Join waitlist
// @Description Move a booking onto the waitlist for its business and date
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 201 {object} resdto.JoinWaitlistResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("actor missing from context"), "Internal server error", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	result, err := h.waitlistCommands.Join(c.Request.Context(), actor, bookingID)
	if err != nil {
		abortCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromJoinResult(result))
}

// @Summary Notify waitlist entry
// @Description Notify the customer of an available slot and open the hold window
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Waitlist entry ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /waitlist/{id}/notify [post]
func (h *WaitlistHandler) Notify(c *gin.Context) {
	h.resolveEntry(c, h.waitlistCommands.Notify)
}

// @Summary Confirm waitlist entry
// @Description Promote the entry's booking to confirmed and remove it from the queue
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Waitlist entry ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /waitlist/{id}/confirm [post]
func (h *WaitlistHandler) Confirm(c *gin.Context) {
	h.resolveEntry(c, h.waitlistCommands.Confirm)
}

// @Summary Remove waitlist entry
// @Description Cancel the entry's booking and remove it from the queue
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Waitlist entry ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /waitlist/{id} [delete]
func (h *WaitlistHandler) Remove(c *gin.Context) {
	h.resolveEntry(c, h.waitlistCommands.Remove)
}

// @Summary List business waitlist
// @Description List the waitlist of a business ordered by position, optionally for one date
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Business ID"
// @Param date query string false "Appointment date (YYYY-MM-DD)"
// @Success 200 {array} resdto.WaitlistEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /businesses/{id}/waitlist [get]
func (h *WaitlistHandler) List(c *gin.Context) {
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

	var date *booking.AppointmentDate
	if dateStr := c.Query("date"); dateStr != "" {
		d, derr := booking.ParseAppointmentDate(dateStr)
		if derr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, derr, "invalid date format, expected YYYY-MM-DD", nil)
			return
		}
		date = &d
	}

	var dateFilter *time.Time
	if date != nil {
		t := date.Time()
		dateFilter = &t
	}

	views, err := h.waitlistQueries.ListForBusiness(c.Request.Context(), actor, businessID, dateFilter)
	if err != nil {
		abortQueryError(c, err)
		return
	}

	response := make([]*resdto.WaitlistEntryResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromWaitlistEntryView(view)
	}
	c.JSON(http.StatusOK, response)
}

func (h *WaitlistHandler) resolveEntry(c *gin.Context, op func(ctx context.Context, actor access.Actor, entryID uuid.UUID) error) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("actor missing from context"), "Internal server error", nil)
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid waitlist entry ID format", nil)
		return
	}

	if err := op(c.Request.Context(), actor, entryID); err != nil {
		abortCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
