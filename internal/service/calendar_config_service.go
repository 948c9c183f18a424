package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/repository"
	"github.com/noah-isme/scholarship-approval-api/internal/workflow"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

type calendarConfigStore interface {
	List(ctx context.Context) ([]models.ApprovalCalendarConfig, error)
	FindByPartnerState(ctx context.Context, partnerStateID string) (*models.ApprovalCalendarConfig, error)
	Create(ctx context.Context, cfg *models.ApprovalCalendarConfig) error
	Update(ctx context.Context, cfg *models.ApprovalCalendarConfig) error
}

// CalendarConfigService administers per partner state calendars. Reads go
// through the cache; workflow decisions read the repository directly.
type CalendarConfigService struct {
	repo      calendarConfigStore
	cache     *CacheService
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCalendarConfigService constructs the service. cache may be nil.
func NewCalendarConfigService(repo calendarConfigStore, cache *CacheService, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *CalendarConfigService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarConfigService{
		repo:      repo,
		cache:     cache,
		ttl:       ttl,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func calendarCacheKey(partnerStateID string) string {
	return fmt.Sprintf("calendar_config:%s", partnerStateID)
}

// Create configures the calendar of the caller's partner state.
func (s *CalendarConfigService) Create(ctx context.Context, claims *models.JWTClaims, req models.CalendarConfigRequest) (*models.ApprovalCalendarConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar configuration")
	}
	if _, err := s.repo.FindByPartnerState(ctx, claims.PartnerStateID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "calendar already configured for this partner state")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to load calendar configuration")
	}
	cfg := &models.ApprovalCalendarConfig{
		PartnerStateID:       claims.PartnerStateID,
		SubmissionDayLimit:   req.SubmissionDayLimit,
		AnalysisWindowDays:   req.AnalysisWindowDays,
		NotificationLeadDays: req.NotificationLeadDays,
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "calendar already configured for this partner state")
		}
		return nil, appErrors.Internal(err, "failed to create calendar configuration")
	}
	_ = s.cache.Evict(ctx, calendarCacheKey(cfg.PartnerStateID))
	return cfg, nil
}

// Update replaces the calendar of the caller's partner state.
func (s *CalendarConfigService) Update(ctx context.Context, claims *models.JWTClaims, req models.CalendarConfigRequest) (*models.ApprovalCalendarConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar configuration")
	}
	cfg, err := s.repo.FindByPartnerState(ctx, claims.PartnerStateID)
	if err != nil {
		return nil, loadError(err, "calendar configuration")
	}
	cfg.SubmissionDayLimit = req.SubmissionDayLimit
	cfg.AnalysisWindowDays = req.AnalysisWindowDays
	cfg.NotificationLeadDays = req.NotificationLeadDays
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, appErrors.Internal(err, "failed to update calendar configuration")
	}
	_ = s.cache.Evict(ctx, calendarCacheKey(cfg.PartnerStateID))
	s.logger.Info("calendar configuration updated", zap.String("partner_state_id", cfg.PartnerStateID), zap.String("user_id", claims.UserID))
	return cfg, nil
}

// Me returns the calendar of the caller's partner state.
func (s *CalendarConfigService) Me(ctx context.Context, claims *models.JWTClaims) (*models.ApprovalCalendarConfig, error) {
	return s.ForPartnerState(ctx, claims.PartnerStateID)
}

// ForPartnerState returns a partner state's calendar, cached.
func (s *CalendarConfigService) ForPartnerState(ctx context.Context, partnerStateID string) (*models.ApprovalCalendarConfig, error) {
	key := calendarCacheKey(partnerStateID)
	var cached models.ApprovalCalendarConfig
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}
	cfg, err := s.repo.FindByPartnerState(ctx, partnerStateID)
	if err != nil {
		return nil, loadError(err, "calendar configuration")
	}
	_ = s.cache.Set(ctx, key, cfg, s.ttl)
	return cfg, nil
}

// List returns every configured calendar.
func (s *CalendarConfigService) List(ctx context.Context) ([]models.ApprovalCalendarConfig, error) {
	configs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list calendar configurations")
	}
	return configs, nil
}

// Deadline describes the submission and analysis deadlines around ref for a
// partner state. A zero ref means today.
func (s *CalendarConfigService) Deadline(ctx context.Context, partnerStateID string, ref time.Time) (*models.CalendarDeadline, error) {
	cfg, err := s.ForPartnerState(ctx, partnerStateID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	if ref.IsZero() {
		ref = today
	}
	remaining := workflow.AnalysisWindowRemaining(cfg, ref, today)
	if remaining < 0 {
		remaining = 0
	}
	return &models.CalendarDeadline{
		PartnerStateID:         partnerStateID,
		SubmissionDeadline:     workflow.SubmissionDeadline(cfg, ref),
		SubmissionWindowOpen:   workflow.IsSubmissionWindowOpen(cfg, today),
		AnalysisDaysRemaining:  remaining,
		AnalysisWindowEnforced: workflow.AnalysisWindowEnforced(cfg),
	}, nil
}
