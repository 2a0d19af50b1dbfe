package repository

import (
	"time"

	"github.com/noah-isme/sma-wellbeing-api/internal/models"
)

// Persisted collection keys.
const (
	KeyUsers        = "app_users"
	KeyMoods        = "app_moods"
	KeyRedemptions  = "app_redemptions"
	KeyAppointments = "app_appointments"
	KeyReports      = "app_reports"
	KeyTestResults  = "app_test_results"
)

// The six independently keyed collections.
var (
	Users        = Collection[models.User]{Name: KeyUsers, Seed: SeedUsers}
	Moods        = Collection[models.MoodLog]{Name: KeyMoods, Seed: SeedMoods}
	Redemptions  = Collection[models.RedemptionLog]{Name: KeyRedemptions}
	Appointments = Collection[models.Appointment]{Name: KeyAppointments}
	Reports      = Collection[models.BehaviorReport]{Name: KeyReports}
	TestResults  = Collection[models.PsychTestResult]{Name: KeyTestResults}
)

// SeedUsers is the first-run roster: two students and one teacher.
func SeedUsers(time.Time) []models.User {
	return []models.User{
		{ID: "s1", Name: "Student Tonkla", Role: models.RoleStudent, Stars: 25},
		{ID: "s2", Name: "Student Malee", Role: models.RoleStudent, Stars: 8},
		{ID: "t1", Name: "Teacher Somchai", Role: models.RoleTeacher, Stars: 0},
	}
}

// SeedMoods is the first-run mood history, stamped relative to now.
func SeedMoods(now time.Time) []models.MoodLog {
	return []models.MoodLog{
		{ID: "m1", UserID: "s1", MoodValue: 5, Emoji: "🥰", Note: "Got full score in Math!", Timestamp: now.Add(-24 * time.Hour)},
		{ID: "m2", UserID: "s1", MoodValue: 2, Emoji: "😟", Note: "Forgot my homework.", Timestamp: now},
		{ID: "m3", UserID: "s2", MoodValue: 3, Emoji: "😐", Note: "Normal day.", Timestamp: now},
	}
}
