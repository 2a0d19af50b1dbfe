package dto

import "time"

// ExportRequest selects the dataset and encoding of an export.
type ExportRequest struct {
	Dataset   string `json:"dataset" validate:"required,oneof=moods reports redemptions"`
	Format    string `json:"format" validate:"required,oneof=csv pdf"`
	StudentID string `json:"studentId"`
}

// ExportResponse describes a rendered export and its download link.
type ExportResponse struct {
	Filename  string    `json:"filename"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
