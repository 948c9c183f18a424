package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/repository"
	"github.com/noah-isme/scholarship-approval-api/internal/workflow"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
	"github.com/noah-isme/scholarship-approval-api/pkg/export"
	"github.com/noah-isme/scholarship-approval-api/pkg/storage"
)

type monthlyReportStore interface {
	FindByID(ctx context.Context, id string) (*models.MonthlyReport, error)
	ExistsForPeriod(ctx context.Context, scholarID string, month, year int) (bool, error)
	Create(ctx context.Context, report *models.MonthlyReport, actions []models.ReportAction) error
	ReplaceActionsHook(reportID string, actions []models.ReportAction, document *string) repository.TxHook
	UpdateDocument(ctx context.Context, id, path string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ApprovalListFilter) ([]models.MonthlyReport, int, error)
	ListByScholar(ctx context.Context, scholarID string) ([]models.MonthlyReport, error)
}

type scholarLookup interface {
	FindByID(ctx context.Context, id string) (*models.Scholar, error)
	FindByUserID(ctx context.Context, userID string) (*models.Scholar, error)
}

type termLookup interface {
	FindSignedByUser(ctx context.Context, userID string) (*models.TermOfMembership, error)
}

type remittanceWriter interface {
	InsertHook(remittance *models.BankRemittance) repository.TxHook
}

type dueScheduleSource interface {
	DueSchedules(ctx context.Context, userID string, month, year int) ([]models.ScheduleItem, error)
}

type documentStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

// DocumentUpload is an attachment streamed from the client.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// ReportWorkflowConfig tunes the monthly report workflow.
type ReportWorkflowConfig struct {
	MaxJustification int
	EnforceWindow    bool
	AllowedMIMEs     []string
	Now              func() time.Time
}

// ReportWorkflowService runs monthly reports through county, regional and
// state validation. Final approval books the scholarship payment.
type ReportWorkflowService struct {
	reports     monthlyReportStore
	scholars    scholarLookup
	terms       termLookup
	remittances remittanceWriter
	schedules   dueScheduleSource
	documents   documentStore
	runner      *approvalRunner
	engine      *workflow.Engine
	validator   *validator.Validate
	logger      *zap.Logger
	mimes       map[string]struct{}
	now         func() time.Time
}

// NewReportWorkflowService wires the report workflow.
func NewReportWorkflowService(
	reports monthlyReportStore,
	scholars scholarLookup,
	terms termLookup,
	remittances remittanceWriter,
	schedules dueScheduleSource,
	documents documentStore,
	deps RunnerDeps,
	validate *validator.Validate,
	cfg ReportWorkflowConfig,
) *ReportWorkflowService {
	if validate == nil {
		validate = validator.New()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	engine := workflow.NewEngine(models.KindMonthlyReport, workflow.ReportChain,
		workflow.WithClock(cfg.Now),
		workflow.WithMaxJustification(cfg.MaxJustification))
	mimes := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, m := range cfg.AllowedMIMEs {
		mimes[strings.ToLower(m)] = struct{}{}
	}
	return &ReportWorkflowService{
		reports:     reports,
		scholars:    scholars,
		terms:       terms,
		remittances: remittances,
		schedules:   schedules,
		documents:   documents,
		runner:      newApprovalRunner(engine, deps, cfg.EnforceWindow),
		engine:      engine,
		validator:   validate,
		logger:      deps.Logger,
		mimes:       mimes,
		now:         cfg.Now,
	}
}

// Create files the caller's report for a month. The report enters validation
// immediately at the first level above the submitter.
func (s *ReportWorkflowService) Create(ctx context.Context, claims *models.JWTClaims, req models.CreateMonthlyReportRequest) (*models.MonthlyReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid monthly report payload")
	}

	scholar, err := s.scholars.FindByUserID(ctx, claims.UserID)
	if err != nil {
		return nil, loadError(err, "scholar")
	}
	if _, err := s.terms.FindSignedByUser(ctx, claims.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "a signed term of membership is required to submit reports")
		}
		return nil, appErrors.Internal(err, "failed to load term of membership")
	}

	cal, err := s.runner.calendarFor(ctx, models.Artifact{PartnerStateID: claims.PartnerStateID})
	if err != nil {
		return nil, err
	}
	if !workflow.IsSubmissionWindowOpen(cal, s.now()) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "the submission period for this month has ended")
	}

	actions, err := s.matchDueActions(ctx, claims.UserID, req.Month, req.Year, req.Actions)
	if err != nil {
		return nil, err
	}

	exists, err := s.reports.ExistsForPeriod(ctx, scholar.ID, req.Month, req.Year)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check existing reports")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a report for this month already exists")
	}

	level, err := s.engine.InitialLevel(claims.Level)
	if err != nil {
		return nil, err
	}
	now := s.now()
	report := &models.MonthlyReport{
		ScholarID: scholar.ID,
		UserID:    claims.UserID,
		Month:     req.Month,
		Year:      req.Year,
		ApprovalState: models.ApprovalState{
			Status:       models.StatusPendingValidation,
			CurrentLevel: level,
			SubmittedAt:  &now,
			Version:      1,
		},
	}
	if err := s.reports.Create(ctx, report, actions); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a report for this month already exists")
		}
		return nil, appErrors.Internal(err, "failed to create monthly report")
	}
	report.OwnerName = claims.FullName
	report.PartnerStateID = claims.PartnerStateID
	report.RegionalPartnerID = claims.RegionalPartnerID
	report.OwnerCity = claims.City

	s.logger.Info("monthly report created",
		zap.String("report_id", report.ID),
		zap.String("user_id", claims.UserID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year))
	return report, nil
}

// matchDueActions checks the submitted actions cover exactly the schedule
// items due for the month and converts them for storage.
func (s *ReportWorkflowService) matchDueActions(ctx context.Context, userID string, month, year int, inputs []models.ReportActionInput) ([]models.ReportAction, error) {
	due, err := s.schedules.DueSchedules(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	if len(inputs) != len(due) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("expected %d actions for %02d/%d, got %d", len(due), month, year, len(inputs)))
	}
	dueIDs := make(map[string]bool, len(due))
	for _, item := range due {
		dueIDs[item.ID] = false
	}
	actions := make([]models.ReportAction, 0, len(inputs))
	for _, in := range inputs {
		used, ok := dueIDs[in.ScheduleID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "action references a schedule item that is not due this month")
		}
		if used {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "schedule item reported more than once")
		}
		dueIDs[in.ScheduleID] = true
		scheduleID := in.ScheduleID
		actions = append(actions, models.ReportAction{
			ScheduleID:         &scheduleID,
			Detailing:          in.Detailing,
			DetailingResult:    in.DetailingResult,
			TrainingDate:       in.TrainingDate,
			WorkloadInMinutes:  in.WorkloadInMinutes,
			ExpectedGraduates:  in.ExpectedGraduates,
			AttendingGraduates: in.AttendingGraduates,
			TrainingModality:   in.TrainingModality,
			Status:             in.Status,
		})
	}
	return actions, nil
}

func (s *ReportWorkflowService) load(ctx context.Context, id string) (*models.MonthlyReport, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "monthly report")
	}
	return report, nil
}

func (s *ReportWorkflowService) loadOwned(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.UserID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the scholar who filed the report may change it")
	}
	return report, nil
}

func (s *ReportWorkflowService) applied(report *models.MonthlyReport, t workflow.Transition) *models.MonthlyReport {
	out := *report
	out.ApprovalState = t.After
	return &out
}

// Submit sends a draft report into validation.
func (s *ReportWorkflowService) Submit(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error) {
	report, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	t, err := s.runner.run(ctx, claims, workflow.TransitionSubmit, report.Artifact(), func(a models.Artifact, _ *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Submit(a)
	}, effects{})
	if err != nil {
		return nil, err
	}
	return s.applied(report, t), nil
}

// BeginValidation marks the report as under analysis at the caller's level.
func (s *ReportWorkflowService) BeginValidation(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := s.runner.run(ctx, claims, workflow.TransitionBeginValidation, report.Artifact(), func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.BeginValidation(a, actorOf(claims), cal)
	}, effects{})
	if err != nil {
		return nil, err
	}
	return s.applied(report, t), nil
}

// Approve records the caller's approval. The state level approval books the
// bank remittance in the same transaction.
func (s *ReportWorkflowService) Approve(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := s.runner.run(ctx, claims, workflow.TransitionApprove, report.Artifact(), func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Approve(a, actorOf(claims), cal)
	}, effects{
		hooks: func(ctx context.Context, t workflow.Transition) ([]repository.TxHook, error) {
			if !t.Final {
				return nil, nil
			}
			remittance, err := s.buildRemittance(ctx, report)
			if err != nil {
				return nil, err
			}
			return []repository.TxHook{s.remittances.InsertHook(remittance)}, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return s.applied(report, t), nil
}

func (s *ReportWorkflowService) buildRemittance(ctx context.Context, report *models.MonthlyReport) (*models.BankRemittance, error) {
	term, err := s.terms.FindSignedByUser(ctx, report.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "scholar has no signed term of membership")
		}
		return nil, appErrors.Internal(err, "failed to load term of membership")
	}
	scholar, err := s.scholars.FindByID(ctx, report.ScholarID)
	if err != nil {
		return nil, loadError(err, "scholar")
	}
	return &models.BankRemittance{
		ID:                      uuid.NewString(),
		MonthlyReportID:         report.ID,
		TermOfMembershipID:      term.ID,
		Bank:                    scholar.Bank,
		Agency:                  scholar.Agency,
		AccountType:             scholar.AccountType,
		AccountNumber:           scholar.AccountNumber,
		ScholarshipValueInCents: term.ScholarshipValueInCents,
		CreatedAt:               s.now(),
	}, nil
}

// Reject records the caller's rejection and notifies the scholar.
func (s *ReportWorkflowService) Reject(ctx context.Context, claims *models.JWTClaims, id string, req models.DecisionRequest) (*models.MonthlyReport, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := s.runner.run(ctx, claims, workflow.TransitionReject, report.Artifact(), func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Reject(a, actorOf(claims), cal, req.Justification)
	}, effects{
		after: func(ctx context.Context, t workflow.Transition) {
			s.runner.notify(ctx, NotificationMessage{
				UserID:   report.UserID,
				Template: models.TemplateReportRejected,
				Data: map[string]string{
					"month":         fmt.Sprintf("%02d", report.Month),
					"year":          strconv.Itoa(report.Year),
					"level":         string(t.History.Level),
					"justification": *t.History.Justification,
				},
			})
		},
	})
	if err != nil {
		return nil, err
	}
	return s.applied(report, t), nil
}

// Resubmit replaces the actions of a report that is still editable, optionally
// with a new document, and sends it back into validation at its current level.
func (s *ReportWorkflowService) Resubmit(ctx context.Context, claims *models.JWTClaims, id string, req models.ResubmitMonthlyReportRequest, doc *DocumentUpload) (*models.MonthlyReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resubmission payload")
	}
	report, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	actions, err := s.matchDueActions(ctx, report.UserID, report.Month, report.Year, req.Actions)
	if err != nil {
		return nil, err
	}

	var stored *string
	if doc != nil {
		path, err := s.storeDocument(report.ID, *doc)
		if err != nil {
			return nil, err
		}
		stored = &path
	}

	t, err := s.runner.run(ctx, claims, workflow.TransitionResubmit, report.Artifact(), func(a models.Artifact, _ *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Resubmit(a)
	}, effects{
		hooks: func(context.Context, workflow.Transition) ([]repository.TxHook, error) {
			return []repository.TxHook{s.reports.ReplaceActionsHook(report.ID, actions, stored)}, nil
		},
	})
	if err != nil {
		if stored != nil {
			s.discardDocument(*stored)
		}
		return nil, err
	}
	if stored != nil && report.ActionDocument != nil {
		s.discardDocument(*report.ActionDocument)
	}

	out := s.applied(report, t)
	out.Actions = actions
	if stored != nil {
		out.ActionDocument = stored
	}
	return out, nil
}

var documentEditableStatuses = []models.ApprovalStatus{
	models.StatusRejected,
	models.StatusPendingValidation,
	models.StatusPendingSubmission,
}

// AttachDocument stores a supporting document for a report that is not yet
// under analysis.
func (s *ReportWorkflowService) AttachDocument(ctx context.Context, claims *models.JWTClaims, id string, doc DocumentUpload) (*models.MonthlyReport, error) {
	report, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if !statusAllowed(report.Status, documentEditableStatuses) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "documents can only be attached before analysis starts")
	}
	path, err := s.storeDocument(report.ID, doc)
	if err != nil {
		return nil, err
	}
	if err := s.reports.UpdateDocument(ctx, report.ID, path); err != nil {
		s.discardDocument(path)
		return nil, appErrors.Internal(err, "failed to save report document")
	}
	if report.ActionDocument != nil && *report.ActionDocument != path {
		s.discardDocument(*report.ActionDocument)
	}
	report.ActionDocument = &path
	return report, nil
}

func (s *ReportWorkflowService) storeDocument(reportID string, doc DocumentUpload) (string, error) {
	if s.documents == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "document storage is not configured")
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(doc.ContentType, ";", 2)[0]))
	if len(s.mimes) > 0 {
		if _, ok := s.mimes[contentType]; !ok {
			return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("document type %q is not allowed", contentType))
		}
	}
	name := filepath.Join(reportID, uuid.NewString()+strings.ToLower(filepath.Ext(doc.Filename)))
	path, err := s.documents.SaveStream(name, doc.Reader)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return "", appErrors.Clone(appErrors.ErrValidation, "document exceeds the maximum size")
		}
		return "", appErrors.Internal(err, "failed to store document")
	}
	return path, nil
}

func (s *ReportWorkflowService) discardDocument(path string) {
	if err := s.documents.Delete(path); err != nil {
		s.logger.Warn("failed to delete report document", zap.String("path", path), zap.Error(err))
	}
}

var removableStatuses = []models.ApprovalStatus{models.StatusPendingValidation, models.StatusPendingSubmission}

// Remove deletes a report that no validator has acted on yet.
func (s *ReportWorkflowService) Remove(ctx context.Context, claims *models.JWTClaims, id string) error {
	report, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return err
	}
	if !statusAllowed(report.Status, removableStatuses) || report.PopulatedSlots() > 0 {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only reports awaiting validation can be removed")
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to remove monthly report")
	}
	if report.ActionDocument != nil {
		s.discardDocument(*report.ActionDocument)
	}
	s.logger.Info("monthly report removed", zap.String("report_id", id), zap.String("user_id", claims.UserID))
	return nil
}

// Get returns a report with its decision history.
func (s *ReportWorkflowService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(claims, report.Artifact()) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report is outside your jurisdiction")
	}
	history, err := s.runner.history(ctx, id)
	if err != nil {
		return nil, err
	}
	report.History = history
	report.DisplayedStatus = workflow.DisplayedStatus(report.ApprovalState, claims.Level)
	return report, nil
}

// List returns the reports visible to the caller with displayed statuses.
func (s *ReportWorkflowService) List(ctx context.Context, claims *models.JWTClaims, q ListQuery) ([]models.MonthlyReport, *models.Pagination, error) {
	filter := q.filterFor(claims)
	items, total, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list monthly reports")
	}
	projected := workflow.ProjectListing(items, claims.Level, func(r *models.MonthlyReport) *models.ApprovalState { return &r.ApprovalState })
	return projected, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListByScholar returns every report of a scholar.
func (s *ReportWorkflowService) ListByScholar(ctx context.Context, claims *models.JWTClaims, scholarID string) ([]models.MonthlyReport, error) {
	scholar, err := s.scholars.FindByID(ctx, scholarID)
	if err != nil {
		return nil, loadError(err, "scholar")
	}
	if !canView(claims, scholar.Artifact()) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "scholar is outside your jurisdiction")
	}
	items, err := s.reports.ListByScholar(ctx, scholarID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list scholar reports")
	}
	return workflow.ProjectListing(items, claims.Level, func(r *models.MonthlyReport) *models.ApprovalState { return &r.ApprovalState }), nil
}

// Export renders the caller's projected listing.
func (s *ReportWorkflowService) Export(ctx context.Context, claims *models.JWTClaims, q ListQuery, format export.Format) ([]byte, string, error) {
	q.Page = 1
	q.PageSize = maxExportRows
	items, _, err := s.List(ctx, claims, q)
	if err != nil {
		return nil, "", err
	}
	data := export.Dataset{
		Title:   "Monthly reports",
		Headers: []string{"Scholar", "Month", "Year", "Status", "Level", "Submitted at"},
		Rows:    make([]map[string]string, 0, len(items)),
	}
	for _, r := range items {
		data.Rows = append(data.Rows, map[string]string{
			"Scholar":      r.OwnerName,
			"Month":        fmt.Sprintf("%02d", r.Month),
			"Year":         strconv.Itoa(r.Year),
			"Status":       string(r.DisplayedStatus),
			"Level":        string(r.CurrentLevel),
			"Submitted at": formatTime(r.SubmittedAt),
		})
	}
	renderer := export.RendererFor(format)
	body, err := renderer.Render(data)
	if err != nil {
		return nil, "", appErrors.Internal(err, "failed to render export")
	}
	return body, renderer.ContentType(), nil
}
