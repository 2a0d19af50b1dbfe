package models

// TeacherDashboard aggregates the data a teacher reviews at a glance.
type TeacherDashboard struct {
	Students            []User                  `json:"students"`
	MoodDistribution    []MoodDistributionEntry `json:"moodDistribution"`
	TotalMoodLogs       int                     `json:"totalMoodLogs"`
	PendingAppointments int                     `json:"pendingAppointments"`
	BehaviorReports     int                     `json:"behaviorReports"`
	TotalStars          int                     `json:"totalStars"`
}
