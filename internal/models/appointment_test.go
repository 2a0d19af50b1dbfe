package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentParsedDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-01T10:00":          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		"2024-01-01T10:00:30":       time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC),
		"2024-01-01T10:00:00Z":      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		"2024-01-01T17:00:00+07:00": time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		" 2024-01-02 ":              time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		got, ok := Appointment{Date: raw}.ParsedDate()
		assert.True(t, ok, raw)
		assert.True(t, want.Equal(got), raw)
	}

	_, ok := Appointment{Date: "next tuesday"}.ParsedDate()
	assert.False(t, ok)
}

func TestAppointmentStatusTerminal(t *testing.T) {
	assert.False(t, AppointmentPending.Terminal())
	assert.True(t, AppointmentApproved.Terminal())
	assert.True(t, AppointmentRejected.Terminal())
}
