//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"localbiz-bookings/internal/domain/access"
	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/handler/api"
	resdto "localbiz-bookings/internal/handler/dto/response"
	"localbiz-bookings/internal/usecase/commands"
	"localbiz-bookings/internal/usecase/queries"
	"localbiz-bookings/tests/common/httptest"
	commandsmock "localbiz-bookings/tests/mock/commands"
	queriesmock "localbiz-bookings/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	actor        access.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.actor = access.Actor{ID: uuid.New(), Role: access.RoleOwner}

	// stand-in for the auth middleware: bearer present -> fixed actor
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Access token required"}})
			return
		}
		c.Set("actor", s.actor)
		c.Next()
	}

	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.PATCH("/bookings/:id/status", authMiddleware, s.handler.UpdateStatus)
	s.router.GET("/businesses/:id/bookings", authMiddleware, s.handler.ListBusinessBookings)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func sampleBookingView(id uuid.UUID) *queries.BookingView {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	price := int64(4500)
	return &queries.BookingView{
		ID:              id,
		BusinessID:      uuid.New(),
		BusinessName:    "Corner Barbers",
		CustomerID:      uuid.New(),
		CustomerName:    "Dana Smith",
		CustomerEmail:   "dana@example.com",
		ServiceType:     "haircut",
		AppointmentDate: now.AddDate(0, 0, 1),
		AppointmentTime: "14:30",
		DurationMin:     45,
		Status:          "pending",
		PriceCents:      &price,
		PaymentStatus:   "unpaid",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ================================================================================
// TestUpdateStatus
// ================================================================================

func (s *BookingHandlerTestSuite) TestUpdateStatus() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/status"

	s.Run("success: returns 200 OK with the new status", func() {
		expected := &commands.UpdateStatusResult{BookingID: bookingID, Status: booking.StatusConfirmed}
		s.mockCommands.EXPECT().
			UpdateStatus(gomock.Any(), s.actor, bookingID, commands.UpdateStatusRequest{
				Action:     booking.ActionConfirm,
				OwnerNotes: "see you then",
			}).
			Return(expected, nil).Times(1)

		body := map[string]any{"action": "confirm", "owner_notes": "see you then"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "bearer-token")

		var response resdto.BookingStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
		s.Equal("confirmed", response.Status)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name string
			body map[string]any
		}{
			{name: "missing action", body: map[string]any{"owner_notes": "x"}},
			{name: "unknown action", body: map[string]any{"action": "postpone"}},
			{name: "waitlist is not a direct action", body: map[string]any{"action": "waitlist"}},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, tc.body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/bookings/not-a-uuid/status",
			map[string]any{"action": "confirm"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"action": "confirm"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "booking not found",
				commandsError:  commands.ErrBookingNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Booking not found",
			},
			{
				name:           "forbidden",
				commandsError:  commands.ErrForbidden,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Operation not permitted",
			},
			{
				name:           "invalid transition",
				commandsError:  commands.ErrInvalidTransition,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid status transition",
			},
			{
				name:           "validation failed",
				commandsError:  commands.ErrValidation,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid request",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().
					UpdateStatus(gomock.Any(), s.actor, bookingID, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
					map[string]any{"action": "cancel"}, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGetBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	s.Run("success: returns 200 OK with BookingResponse", func() {
		view := sampleBookingView(bookingID)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, bookingID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
		s.Equal("pending", response.Status)
		s.Equal("14:30", response.AppointmentTime)
		s.Equal(view.AppointmentDate.Format("2006-01-02"), response.AppointmentDate)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "booking not found",
				queriesError:   queries.ErrBookingNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Booking not found",
			},
			{
				name:           "access denied",
				queriesError:   queries.ErrAccessDenied,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Operation not permitted",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, bookingID).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestListBusinessBookings
// ================================================================================

func (s *BookingHandlerTestSuite) TestListBusinessBookings() {
	businessID := uuid.New()
	baseURL := "/businesses/" + businessID.String() + "/bookings"

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	items := []*queries.BookingListItem{
		{ID: uuid.New(), CustomerName: "Dana Smith", ServiceType: "haircut", AppointmentDate: now.AddDate(0, 0, 1), AppointmentTime: "10:00", Status: "pending", CreatedAt: now},
		{ID: uuid.New(), CustomerName: "Lee Park", ServiceType: "massage", AppointmentDate: now.AddDate(0, 0, 1), AppointmentTime: "11:30", Status: "confirmed", CreatedAt: now},
	}

	s.Run("success: returns the business bookings", func() {
		s.mockQueries.EXPECT().ListForBusiness(gomock.Any(), s.actor, businessID, queries.BookingFilters{}).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL, nil, "bearer-token")

		var response []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("Dana Smith", response[0].CustomerName)
	})

	s.Run("success: date and status filters are forwarded", func() {
		expectedDate := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
		status := "pending"
		s.mockQueries.EXPECT().
			ListForBusiness(gomock.Any(), s.actor, businessID, queries.BookingFilters{Date: &expectedDate, Status: &status}).
			Return(items[:1], nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			baseURL+"?date=2026-03-11&status=pending", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request on bad filters", func() {
		testCases := []struct {
			name   string
			params string
			msg    string
		}{
			{name: "bad date", params: "?date=11-03-2026", msg: "invalid date format"},
			{name: "bad status", params: "?status=parked", msg: "invalid status filter"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL+tc.params, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.msg)
			})
		}
	})

	s.Run("error: 404 Not Found for missing business", func() {
		s.mockQueries.EXPECT().ListForBusiness(gomock.Any(), s.actor, businessID, queries.BookingFilters{}).
			Return(nil, queries.ErrBusinessNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Business not found")
	})

	s.Run("error: 403 Forbidden on access denied", func() {
		s.mockQueries.EXPECT().ListForBusiness(gomock.Any(), s.actor, businessID, queries.BookingFilters{}).
			Return(nil, queries.ErrAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Operation not permitted")
	})
}
