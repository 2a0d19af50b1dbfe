package models

import "time"

// BehaviorReport is a teacher's free-text note about a student, routed to the advisor.
type BehaviorReport struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName"`
	Detail      string    `json:"detail"`
	TeacherName string    `json:"teacherName"`
	Timestamp   time.Time `json:"timestamp"`
}

// BehaviorReportFilter narrows report listings.
type BehaviorReportFilter struct {
	StudentID string
}
