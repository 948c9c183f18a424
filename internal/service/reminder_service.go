package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/workflow"
	"github.com/noah-isme/scholarship-approval-api/pkg/authz"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

type reminderDirectory interface {
	ListScholarsMissingReport(ctx context.Context, partnerStateID string, month, year int) ([]models.Recipient, error)
	ListValidatorsWithPending(ctx context.Context, partnerStateID string, level models.Level, month, year int) ([]models.User, error)
}

type calendarLister interface {
	List(ctx context.Context) ([]models.ApprovalCalendarConfig, error)
}

type termExpirer interface {
	ExpireDue(ctx context.Context, today time.Time) ([]models.TermOfMembership, error)
}

type permissionChecker interface {
	Allowed(subjects []string, resource, action string) (bool, error)
}

// ReminderService runs the periodic sweeps: submission and validation
// reminders and term expiry.
type ReminderService struct {
	calendars calendarLister
	users     reminderDirectory
	terms     termExpirer
	perms     permissionChecker
	notifier  notifier
	audit     auditWriter
	logger    *zap.Logger
}

// NewReminderService constructs the sweeps.
func NewReminderService(calendars calendarLister, users reminderDirectory, terms termExpirer, perms permissionChecker, notifier notifier, audit auditWriter, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		calendars: calendars,
		users:     users,
		terms:     terms,
		perms:     perms,
		notifier:  notifier,
		audit:     audit,
		logger:    logger,
	}
}

// SweepScholarReminders reminds scholars who have not filed this month's
// report once their partner state's reminder lead time starts. It returns the
// number of notifications dispatched.
func (s *ReminderService) SweepScholarReminders(ctx context.Context, today time.Time) (int, error) {
	configs, err := s.calendars.List(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for i := range configs {
		cfg := configs[i]
		days, due := workflow.SubmissionReminderDue(&cfg, today)
		if !due {
			continue
		}
		month, year := int(today.Month()), today.Year()
		recipients, err := s.users.ListScholarsMissingReport(ctx, cfg.PartnerStateID, month, year)
		if err != nil {
			return sent, appErrors.Internal(err, "failed to list scholars to remind")
		}
		for _, r := range recipients {
			s.notifier.Dispatch(ctx, NotificationMessage{
				UserID:   r.ID,
				Template: models.TemplateReportSubmissionReminder,
				Data: map[string]string{
					"days":  strconv.Itoa(days),
					"month": fmt.Sprintf("%02d", month),
					"year":  strconv.Itoa(year),
				},
			})
			sent++
		}
		s.logger.Info("scholar reminders dispatched",
			zap.String("partner_state_id", cfg.PartnerStateID),
			zap.Int("days_left", days),
			zap.Int("recipients", len(recipients)))
	}
	return sent, nil
}

// SweepValidatorReminders reminds validators holding report approval rights
// that reports of the period under analysis wait at their level.
func (s *ReminderService) SweepValidatorReminders(ctx context.Context, today time.Time) (int, error) {
	configs, err := s.calendars.List(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for i := range configs {
		cfg := configs[i]
		if !workflow.AnalysisWindowEnforced(&cfg) {
			continue
		}
		period := workflow.ValidationPeriodFor(&cfg, today)
		remaining := workflow.AnalysisWindowRemaining(&cfg, period, today)
		if remaining < 0 {
			continue
		}
		month, year := int(period.Month()), period.Year()
		for _, level := range workflow.ReportChain {
			validators, err := s.users.ListValidatorsWithPending(ctx, cfg.PartnerStateID, level, month, year)
			if err != nil {
				return sent, appErrors.Internal(err, "failed to list validators to remind")
			}
			for _, v := range validators {
				ok, err := s.perms.Allowed(v.Subjects(), authz.ResourceMonthlyReports, authz.ActionDecide)
				if err != nil {
					return sent, appErrors.Internal(err, "failed to check validator permissions")
				}
				if !ok {
					continue
				}
				s.notifier.Dispatch(ctx, NotificationMessage{
					UserID:   v.ID,
					Template: models.TemplateReportValidationReminder,
					Data: map[string]string{
						"days":  strconv.Itoa(remaining),
						"month": fmt.Sprintf("%02d", month),
						"year":  strconv.Itoa(year),
						"level": string(level),
					},
				})
				sent++
			}
		}
	}
	return sent, nil
}

// ExpireTerms inactivates terms that reached their end date and deactivates
// the scholars holding them.
func (s *ReminderService) ExpireTerms(ctx context.Context, today time.Time) ([]models.TermOfMembership, error) {
	expired, err := s.terms.ExpireDue(ctx, today)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to expire terms")
	}
	for _, term := range expired {
		if s.audit == nil {
			break
		}
		id, userID := term.ID, term.UserID
		values, _ := json.Marshal(map[string]string{"status": string(models.TermInactive), "user_id": userID})
		if err := s.audit.Create(ctx, &models.AuditLog{
			Action:     models.AuditActionTermExpiration,
			Resource:   "terms_of_membership",
			ResourceID: &id,
			NewValues:  values,
		}); err != nil {
			s.logger.Warn("failed to record term expiration audit log", zap.String("term_id", id), zap.Error(err))
		}
	}
	s.logger.Info("terms expired", zap.Int("count", len(expired)), zap.Time("today", today))
	return expired, nil
}
