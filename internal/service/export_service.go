package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
	"github.com/noah-isme/sma-wellbeing-api/pkg/export"
	"github.com/noah-isme/sma-wellbeing-api/pkg/storage"
)

// Exportable datasets.
const (
	ExportMoods       = "moods"
	ExportReports     = "reports"
	ExportRedemptions = "redemptions"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportFile is a verified download ready to stream.
type ExportFile struct {
	File        *os.File
	Name        string
	ContentType string
}

// ExportService renders collections to CSV or PDF and hands out signed download tokens.
type ExportService struct {
	store     *repository.RecordStore
	storage   fileStorage
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(store *repository.RecordStore, files fileStorage, signer *storage.SignedURLSigner, validate *validator.Validate, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		store:     store,
		storage:   files,
		signer:    signer,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       utcNow,
	}
}

// Generate renders the requested dataset, stores it and signs a download link.
func (s *ExportService) Generate(ctx context.Context, actor *models.SessionClaims, req dto.ExportRequest) (*dto.ExportResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid export request")
	}
	renderer, err := export.RendererFor(export.Format(req.Format))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format")
	}

	dataset := s.buildDataset(ctx, req.Dataset, strings.TrimSpace(req.StudentID))
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s_%s.%s", req.Dataset, s.now().Format("20060102_150405"), uuid.NewString()[:8], req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to store export")
	}
	link, err := s.signer.Sign(actor.UserID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("export generated",
		zap.String("dataset", req.Dataset),
		zap.String("format", req.Format),
		zap.String("file", relPath),
		zap.Int("rows", len(dataset.Rows)),
	)
	return &dto.ExportResponse{
		Filename:  relPath,
		Token:     link.Token,
		URL:       fmt.Sprintf("%s/exports/%s", prefix, link.Token),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// Open verifies a download token and opens the referenced file.
func (s *ExportService) Open(token string) (*ExportFile, error) {
	link, err := s.signer.Verify(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(link.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	contentType := "application/octet-stream"
	if idx := strings.LastIndex(link.Path, "."); idx >= 0 {
		if renderer, err := export.RendererFor(export.Format(link.Path[idx+1:])); err == nil {
			contentType = renderer.ContentType()
		}
	}
	return &ExportFile{File: file, Name: link.Path, ContentType: contentType}, nil
}

// Cleanup removes exports older than ttl, or the configured TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildDataset(ctx context.Context, name, studentID string) export.Dataset {
	switch name {
	case ExportReports:
		reports := repository.Load(ctx, s.store, repository.Reports)
		rows := make([]map[string]string, 0, len(reports))
		for _, r := range reports {
			if studentID != "" && r.StudentID != studentID {
				continue
			}
			rows = append(rows, map[string]string{
				"Timestamp":  formatExportTime(r.Timestamp),
				"Student ID": r.StudentID,
				"Student":    r.StudentName,
				"Teacher":    r.TeacherName,
				"Detail":     r.Detail,
			})
		}
		return export.Dataset{
			Title:   "Behavior Reports",
			Headers: []string{"Timestamp", "Student ID", "Student", "Teacher", "Detail"},
			Rows:    rows,
		}
	case ExportRedemptions:
		logs := repository.Load(ctx, s.store, repository.Redemptions)
		rows := make([]map[string]string, 0, len(logs))
		for _, l := range logs {
			if studentID != "" && l.UserID != studentID {
				continue
			}
			rows = append(rows, map[string]string{
				"Timestamp": formatExportTime(l.Timestamp),
				"User ID":   l.UserID,
				"Reward":    l.RewardName,
				"Cost":      strconv.Itoa(l.Cost),
			})
		}
		return export.Dataset{
			Title:   "Reward Redemptions",
			Headers: []string{"Timestamp", "User ID", "Reward", "Cost"},
			Rows:    rows,
		}
	default:
		moods := repository.Load(ctx, s.store, repository.Moods)
		sortMoodsNewestFirst(moods)
		rows := make([]map[string]string, 0, len(moods))
		for _, m := range moods {
			if studentID != "" && m.UserID != studentID {
				continue
			}
			rows = append(rows, map[string]string{
				"Timestamp": formatExportTime(m.Timestamp),
				"User ID":   m.UserID,
				"Mood":      strconv.Itoa(m.MoodValue),
				"Emoji":     m.Emoji,
				"Note":      m.Note,
			})
		}
		return export.Dataset{
			Title:   "Mood Logs",
			Headers: []string{"Timestamp", "User ID", "Mood", "Emoji", "Note"},
			Rows:    rows,
		}
	}
}

func formatExportTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
