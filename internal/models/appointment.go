package models

import (
	"strings"
	"time"
)

// AppointmentStatus captures the counseling request lifecycle.
type AppointmentStatus string

const (
	AppointmentPending  AppointmentStatus = "pending"
	AppointmentApproved AppointmentStatus = "approved"
	AppointmentRejected AppointmentStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentApproved || s == AppointmentRejected
}

// Appointment is a student's counseling request. TeacherID stays empty until
// a teacher decides it.
type Appointment struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"studentId"`
	StudentName string            `json:"studentName"`
	TeacherID   string            `json:"teacherId"`
	Reason      string            `json:"reason"`
	Date        string            `json:"date"`
	Status      AppointmentStatus `json:"status"`
	TeacherNote *string           `json:"teacherNote,omitempty"`
}

var appointmentDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParsedDate interprets Date as an ISO timestamp. Zone-less values are read as UTC.
func (a Appointment) ParsedDate() (time.Time, bool) {
	raw := strings.TrimSpace(a.Date)
	for _, layout := range appointmentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
