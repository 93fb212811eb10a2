//go:build unit

package waitlist_test

import (
	"testing"
	"time"

	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/domain/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	date := booking.NewAppointmentDate(now.AddDate(0, 0, 1))

	t.Run("positions start at one", func(t *testing.T) {
		_, err := waitlist.NewEntry(uuid.New(), uuid.New(), date, 0, now)
		assert.ErrorIs(t, err, waitlist.ErrInvalidPosition)
		_, err = waitlist.NewEntry(uuid.New(), uuid.New(), date, -3, now)
		assert.ErrorIs(t, err, waitlist.ErrInvalidPosition)

		e, err := waitlist.NewEntry(uuid.New(), uuid.New(), date, 1, now)
		require.NoError(t, err)
		assert.Equal(t, 1, e.Position())
		assert.False(t, e.IsNotified())
		assert.Nil(t, e.ExpiresAt())
	})

	t.Run("notification opens the hold window", func(t *testing.T) {
		e, err := waitlist.NewEntry(uuid.New(), uuid.New(), date, 2, now)
		require.NoError(t, err)

		e.MarkNotified(now)
		require.True(t, e.IsNotified())
		require.NotNil(t, e.ExpiresAt())
		assert.Equal(t, now.Add(waitlist.HoldDuration), *e.ExpiresAt())
	})

	t.Run("re-notifying restarts the window", func(t *testing.T) {
		e, err := waitlist.NewEntry(uuid.New(), uuid.New(), date, 1, now)
		require.NoError(t, err)

		e.MarkNotified(now)
		later := now.Add(90 * time.Minute)
		e.MarkNotified(later)

		require.NotNil(t, e.ExpiresAt())
		assert.Equal(t, later.Add(waitlist.HoldDuration), *e.ExpiresAt())
		assert.False(t, e.HoldExpired(now.Add(waitlist.HoldDuration+time.Minute)),
			"old window no longer applies after re-notification")
	})

	t.Run("hold expiry", func(t *testing.T) {
		e, err := waitlist.NewEntry(uuid.New(), uuid.New(), date, 1, now)
		require.NoError(t, err)

		assert.False(t, e.HoldExpired(now.Add(100*time.Hour)), "unnotified entries never expire")

		e.MarkNotified(now)
		assert.False(t, e.HoldExpired(now.Add(waitlist.HoldDuration)), "boundary is not yet expired")
		assert.True(t, e.HoldExpired(now.Add(waitlist.HoldDuration+time.Second)))
	})

	t.Run("reconstruct round trip", func(t *testing.T) {
		id, bookingID, businessID := uuid.New(), uuid.New(), uuid.New()
		notified := now
		expires := now.Add(waitlist.HoldDuration)

		e := waitlist.ReconstructEntry(id, bookingID, businessID, date, 3, &notified, &expires, now)
		assert.Equal(t, id, e.ID())
		assert.Equal(t, bookingID, e.BookingID())
		assert.Equal(t, businessID, e.BusinessID())
		assert.True(t, e.Date().Equal(date))
		assert.Equal(t, 3, e.Position())
		assert.True(t, e.IsNotified())
	})
}
