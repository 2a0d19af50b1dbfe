package dto

// CreateBehaviorReportRequest files a note about a student.
type CreateBehaviorReportRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Detail    string `json:"detail" validate:"required"`
}
