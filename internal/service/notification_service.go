package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
	"github.com/noah-isme/scholarship-approval-api/pkg/jobs"
)

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, id, userID string, at time.Time) error
}

// NotificationMessage asks for one templated notification to a user.
type NotificationMessage struct {
	UserID   string
	Template models.NotificationTemplate
	Data     map[string]string
}

type messageTemplate struct {
	title string
	text  *template.Template
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=zero").Parse(text))
}

var notificationTemplates = map[models.NotificationTemplate]messageTemplate{
	models.TemplateReportRejected: {
		title: "Monthly report rejected",
		text:  mustTemplate("report_rejected", `Your monthly report for {{.month}}/{{.year}} was rejected at the {{.level}} level. Reason: {{.justification}}`),
	},
	models.TemplateRegistrationRejected: {
		title: "Registration rejected",
		text:  mustTemplate("registration_rejected", `Your registration was rejected at the {{.level}} level. Reason: {{.justification}}`),
	},
	models.TemplateWorkPlanRejected: {
		title: "Work plan rejected",
		text:  mustTemplate("work_plan_rejected", `Your work plan was rejected at the {{.level}} level. Reason: {{.justification}}`),
	},
	models.TemplateReportSubmissionReminder: {
		title: "Monthly report pending",
		text: mustTemplate("submission_reminder", `{{if eq .days "0"}}Today is the last day to submit your monthly report for {{.month}}/{{.year}}.`+
			`{{else}}You have {{.days}} day(s) left to submit your monthly report for {{.month}}/{{.year}}.{{end}}`),
	},
	models.TemplateReportValidationReminder: {
		title: "Monthly reports awaiting validation",
		text:  mustTemplate("validation_reminder", `Monthly reports for {{.month}}/{{.year}} are waiting for your {{.level}} validation. {{.days}} day(s) remain in the analysis period.`),
	},
}

// RenderNotification builds the title and text of a templated message.
func RenderNotification(tpl models.NotificationTemplate, data map[string]string) (string, string, error) {
	mt, ok := notificationTemplates[tpl]
	if !ok {
		return "", "", fmt.Errorf("unknown notification template %q", tpl)
	}
	var buf bytes.Buffer
	if err := mt.text.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", tpl, err)
	}
	return mt.title, buf.String(), nil
}

// NotificationService persists in-app notifications. Dispatch is fire and
// forget: failures are logged, never returned to the caller.
type NotificationService struct {
	repo    notificationStore
	metrics *MetricsService
	logger  *zap.Logger
	queue   *jobs.Queue
	now     func() time.Time
}

// NewNotificationService constructs the service. Without StartQueue messages
// are written synchronously.
func NewNotificationService(repo notificationStore, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, metrics: metrics, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// StartQueue moves delivery onto a worker pool with retries.
func (s *NotificationService) StartQueue(ctx context.Context, cfg jobs.QueueConfig) {
	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	s.queue = jobs.NewQueue("notifications", s.handleJob, cfg)
	s.queue.Start(ctx)
}

// StopQueue drains the worker pool.
func (s *NotificationService) StopQueue() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// Dispatch queues msg for delivery, writing it inline when no queue runs.
func (s *NotificationService) Dispatch(ctx context.Context, msg NotificationMessage) {
	if s.queue != nil {
		job := jobs.Job{ID: uuid.NewString(), Type: string(msg.Template), Payload: msg}
		err := s.queue.Enqueue(job)
		if err == nil {
			return
		}
		s.logger.Warn("notification enqueue failed, delivering inline", zap.String("template", string(msg.Template)), zap.Error(err))
	}
	if err := s.deliver(ctx, msg); err != nil {
		s.logger.Warn("failed to deliver notification",
			zap.String("user_id", msg.UserID),
			zap.String("template", string(msg.Template)),
			zap.Error(err))
	}
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(NotificationMessage)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.deliver(ctx, msg)
}

func (s *NotificationService) deliver(ctx context.Context, msg NotificationMessage) error {
	title, text, err := RenderNotification(msg.Template, msg.Data)
	if err != nil {
		s.metrics.RecordNotification(msg.Template, false)
		return err
	}
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    msg.UserID,
		Title:     title,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.metrics.RecordNotification(msg.Template, false)
		return err
	}
	s.metrics.RecordNotification(msg.Template, true)
	return nil
}

// ListMine returns the caller's notifications, newest first.
func (s *NotificationService) ListMine(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, *models.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	items, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list notifications")
	}
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// MarkRead flags one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Internal(err, "failed to mark notification as read")
	}
	return nil
}
