package booking

import (
	"errors"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	ErrInvalidDate     = errors.New("invalid appointment date")
	ErrInvalidTime     = errors.New("invalid appointment time")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrEmptyReason     = errors.New("rejection reason is required")
)

// AppointmentDate is a calendar date with no time-of-day component. It is
// the second half of the waitlist scope key, so it must compare exactly.
type AppointmentDate struct {
	value time.Time
}

func NewAppointmentDate(t time.Time) AppointmentDate {
	y, m, d := t.Date()
	return AppointmentDate{value: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseAppointmentDate(s string) (AppointmentDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return AppointmentDate{}, ErrInvalidDate
	}
	return AppointmentDate{value: t}, nil
}

func (d AppointmentDate) Time() time.Time {
	return d.value
}

func (d AppointmentDate) String() string {
	return d.value.Format(dateLayout)
}

func (d AppointmentDate) Equal(other AppointmentDate) bool {
	return d.value.Equal(other.value)
}

type AppointmentTime struct {
	hour   int
	minute int
}

func NewAppointmentTime(hour, minute int) (AppointmentTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return AppointmentTime{}, ErrInvalidTime
	}
	return AppointmentTime{hour: hour, minute: minute}, nil
}

func ParseAppointmentTime(s string) (AppointmentTime, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return AppointmentTime{}, ErrInvalidTime
	}
	return AppointmentTime{hour: t.Hour(), minute: t.Minute()}, nil
}

func (t AppointmentTime) Hour() int   { return t.hour }
func (t AppointmentTime) Minute() int { return t.minute }

func (t AppointmentTime) String() string {
	return time.Date(0, 1, 1, t.hour, t.minute, 0, 0, time.UTC).Format(timeLayout)
}

type Duration struct {
	minutes int
}

func NewDuration(minutes int) (Duration, error) {
	if minutes <= 0 {
		return Duration{}, ErrInvalidDuration
	}
	return Duration{minutes: minutes}, nil
}

func (d Duration) Minutes() int { return d.minutes }

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 { return m.cents }

type Notes struct {
	value string
}

func NewNotes(value string) Notes {
	return Notes{value: value}
}

func (n Notes) String() string { return n.value }
func (n Notes) IsEmpty() bool  { return n.value == "" }
