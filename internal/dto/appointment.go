package dto

import "github.com/noah-isme/sma-wellbeing-api/internal/models"

// CreateAppointmentRequest is a student's counseling request.
type CreateAppointmentRequest struct {
	Reason string `json:"reason" validate:"required"`
	Date   string `json:"date" validate:"required"`
}

// DecideAppointmentRequest carries a teacher's decision. A nil or blank note
// is replaced with the default for the chosen status.
type DecideAppointmentRequest struct {
	Status models.AppointmentStatus `json:"status" validate:"required,oneof=approved rejected"`
	Note   *string                  `json:"note"`
}
