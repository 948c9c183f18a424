package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/repository"
	"github.com/noah-isme/scholarship-approval-api/pkg/events"
)

var testNow = time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func ptr[T any](v T) *T { return &v }

func scholarClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleScholar, FullName: "Scholar " + userID, PartnerStateID: "ps-1"}
}

func validatorClaims(userID string, level models.Level) *models.JWTClaims {
	return &models.JWTClaims{
		UserID:         userID,
		Role:           models.RoleStaff,
		Level:          level,
		PartnerStateID: "ps-1",
		Areas:          []string{models.AreaApproveReports, models.AreaApproveRegistrations, models.AreaApproveWorkPlans},
	}
}

type appliedTransition struct {
	kind    models.ArtifactKind
	id      string
	after   models.ApprovalState
	history *models.ValidationHistory
}

// stubTransitionStore applies the version check of the real store and runs
// hooks without a transaction.
type stubTransitionStore struct {
	mu       sync.Mutex
	versions map[string]int
	applied  []appliedTransition
	history  map[string][]models.ValidationHistory
	err      error
}

func newStubTransitionStore() *stubTransitionStore {
	return &stubTransitionStore{versions: map[string]int{}, history: map[string][]models.ValidationHistory{}}
}

func (s *stubTransitionStore) Apply(ctx context.Context, kind models.ArtifactKind, id string, expectedVersion int, after models.ApprovalState, history *models.ValidationHistory, hooks ...repository.TxHook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if current, ok := s.versions[id]; ok && current != expectedVersion {
		return sql.ErrNoRows
	}
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, (*sqlx.Tx)(nil)); err != nil {
			return err
		}
	}
	s.versions[id] = expectedVersion + 1
	s.applied = append(s.applied, appliedTransition{kind: kind, id: id, after: after, history: history})
	if history != nil {
		s.history[id] = append(s.history[id], *history)
	}
	return nil
}

func (s *stubTransitionStore) History(ctx context.Context, kind models.ArtifactKind, id string) ([]models.ValidationHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ValidationHistory(nil), s.history[id]...), nil
}

func (s *stubTransitionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applied)
}

type stubCalendars struct {
	configs map[string]*models.ApprovalCalendarConfig
}

func (s *stubCalendars) FindByPartnerState(ctx context.Context, partnerStateID string) (*models.ApprovalCalendarConfig, error) {
	if cfg, ok := s.configs[partnerStateID]; ok {
		copy := *cfg
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

type stubAudit struct {
	mu   sync.Mutex
	logs []*models.AuditLog
	err  error
}

func (s *stubAudit) Create(ctx context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
	return s.err
}

type stubPublisher struct {
	mu     sync.Mutex
	events []events.DecisionEvent
	err    error
}

func (s *stubPublisher) Publish(ctx context.Context, event events.DecisionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *stubPublisher) Close() error { return nil }

type stubNotifier struct {
	mu       sync.Mutex
	messages []NotificationMessage
}

func (s *stubNotifier) Dispatch(ctx context.Context, msg NotificationMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

type runnerFixture struct {
	store     *stubTransitionStore
	calendars *stubCalendars
	audit     *stubAudit
	events    *stubPublisher
	notifier  *stubNotifier
}

func newRunnerFixture() *runnerFixture {
	return &runnerFixture{
		store:     newStubTransitionStore(),
		calendars: &stubCalendars{configs: map[string]*models.ApprovalCalendarConfig{}},
		audit:     &stubAudit{},
		events:    &stubPublisher{},
		notifier:  &stubNotifier{},
	}
}

func (f *runnerFixture) deps() RunnerDeps {
	return RunnerDeps{
		Store:     f.store,
		Calendars: f.calendars,
		Audit:     f.audit,
		Events:    f.events,
		Notifier:  f.notifier,
		Metrics:   NewMetricsService(),
	}
}

type stubReportStore struct {
	mu        sync.Mutex
	reports   map[string]models.MonthlyReport
	exists    bool
	createErr error
	replaced  map[string][]models.ReportAction
	documents map[string]string
	deleted   []string
	filter    models.ApprovalListFilter
}

func newStubReportStore(reports ...models.MonthlyReport) *stubReportStore {
	s := &stubReportStore{reports: map[string]models.MonthlyReport{}, replaced: map[string][]models.ReportAction{}, documents: map[string]string{}}
	for _, r := range reports {
		s.reports[r.ID] = r
	}
	return s
}

func (s *stubReportStore) put(r *models.MonthlyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = *r
}

func (s *stubReportStore) FindByID(ctx context.Context, id string) (*models.MonthlyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (s *stubReportStore) ExistsForPeriod(ctx context.Context, scholarID string, month, year int) (bool, error) {
	return s.exists, nil
}

func (s *stubReportStore) Create(ctx context.Context, report *models.MonthlyReport, actions []models.ReportAction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	report.ID = fmt.Sprintf("report-%d", len(s.reports)+1)
	report.CreatedAt = testNow
	report.Actions = actions
	s.reports[report.ID] = *report
	return nil
}

func (s *stubReportStore) ReplaceActionsHook(reportID string, actions []models.ReportAction, document *string) repository.TxHook {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.replaced[reportID] = actions
		if document != nil {
			s.documents[reportID] = *document
		}
		return nil
	}
}

func (s *stubReportStore) UpdateDocument(ctx context.Context, id, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[id] = path
	return nil
}

func (s *stubReportStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	delete(s.reports, id)
	return nil
}

func (s *stubReportStore) List(ctx context.Context, filter models.ApprovalListFilter) ([]models.MonthlyReport, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	var out []models.MonthlyReport
	for _, r := range s.reports {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (s *stubReportStore) ListByScholar(ctx context.Context, scholarID string) ([]models.MonthlyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MonthlyReport
	for _, r := range s.reports {
		if r.ScholarID == scholarID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubScholars struct {
	byID map[string]*models.Scholar
}

func newStubScholars(scholars ...*models.Scholar) *stubScholars {
	s := &stubScholars{byID: map[string]*models.Scholar{}}
	for _, sc := range scholars {
		s.byID[sc.ID] = sc
	}
	return s
}

func (s *stubScholars) FindByID(ctx context.Context, id string) (*models.Scholar, error) {
	if sc, ok := s.byID[id]; ok {
		copy := *sc
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubScholars) FindByUserID(ctx context.Context, userID string) (*models.Scholar, error) {
	for _, sc := range s.byID {
		if sc.UserID == userID {
			copy := *sc
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubTerms struct {
	terms map[string]*models.TermOfMembership
}

func (s *stubTerms) FindSignedByUser(ctx context.Context, userID string) (*models.TermOfMembership, error) {
	if t, ok := s.terms[userID]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

type stubRemittances struct {
	mu     sync.Mutex
	booked []*models.BankRemittance
}

func (s *stubRemittances) InsertHook(remittance *models.BankRemittance) repository.TxHook {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.booked = append(s.booked, remittance)
		return nil
	}
}

type stubDueSchedules struct {
	items []models.ScheduleItem
	err   error
}

func (s *stubDueSchedules) DueSchedules(ctx context.Context, userID string, month, year int) ([]models.ScheduleItem, error) {
	return s.items, s.err
}

type stubDocuments struct {
	mu      sync.Mutex
	saved   map[string]string
	deleted []string
}

func (s *stubDocuments) SaveStream(filename string, r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = map[string]string{}
	}
	s.saved[filename] = string(body)
	return filename, nil
}

func (s *stubDocuments) Delete(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, filename)
	return nil
}
