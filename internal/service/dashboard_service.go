package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
)

// DashboardService composes the teacher overview from the independent collections.
type DashboardService struct {
	store   *repository.RecordStore
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(store *repository.RecordStore, cat *catalog.Catalog, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &DashboardService{store: store, catalog: cat, logger: logger}
}

// Teacher loads students, mood distribution, pending appointments and report totals.
func (s *DashboardService) Teacher(ctx context.Context) (*models.TeacherDashboard, error) {
	var (
		users   []models.User
		moods   []models.MoodLog
		appts   []models.Appointment
		reports []models.BehaviorReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users = repository.Load(gctx, s.store, repository.Users)
		return gctx.Err()
	})
	g.Go(func() error {
		moods = repository.Load(gctx, s.store, repository.Moods)
		return gctx.Err()
	})
	g.Go(func() error {
		appts = repository.Load(gctx, s.store, repository.Appointments)
		return gctx.Err()
	})
	g.Go(func() error {
		reports = repository.Load(gctx, s.store, repository.Reports)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	students := filterUsers(users, models.UserFilter{Role: models.RoleStudent})
	totalStars := 0
	for _, u := range students {
		totalStars += u.Stars
	}
	return &models.TeacherDashboard{
		Students:            students,
		MoodDistribution:    moodDistribution(s.catalog, moods),
		TotalMoodLogs:       len(moods),
		PendingAppointments: countPending(appts),
		BehaviorReports:     len(reports),
		TotalStars:          totalStars,
	}, nil
}
