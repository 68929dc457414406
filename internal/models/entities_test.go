package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStartDateTime(t *testing.T) {
	b := &Booking{
		BookingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:30",
	}

	start, err := b.StartDateTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC), start)
}

func TestBookingStartDateTimeInvalid(t *testing.T) {
	b := &Booking{
		BookingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime:   "6pm",
	}

	_, err := b.StartDateTime()
	assert.Error(t, err)
}
