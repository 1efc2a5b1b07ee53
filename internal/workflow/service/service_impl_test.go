package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
	balancedomain "github.com/leavesync/leavesync/internal/balance/domain"
	balancerepo "github.com/leavesync/leavesync/internal/balance/repository"
	balanceservice "github.com/leavesync/leavesync/internal/balance/service"
	"github.com/leavesync/leavesync/internal/clock"
	"github.com/leavesync/leavesync/internal/draft"
	"github.com/leavesync/leavesync/internal/migration"
	"github.com/leavesync/leavesync/internal/notification"
	"github.com/leavesync/leavesync/internal/observability/metrics"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	principalrepo "github.com/leavesync/leavesync/internal/principal/repository"
	"github.com/leavesync/leavesync/internal/seed"
	"github.com/leavesync/leavesync/internal/workflow/domain"
	"github.com/leavesync/leavesync/internal/workflow/repository"
	"github.com/leavesync/leavesync/pkg/db"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, entry auditdomain.Entry) {}

func (noopAudit) List(ctx context.Context, actorID snowflake.ID, q auditdomain.ListQuery) ([]auditdomain.Entry, error) {
	return nil, nil
}

type stubDrafter struct{}

func (stubDrafter) Draft(ctx context.Context, in draft.Input) (string, error) {
	return "draft for " + in.LeaveType, nil
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	return m
}

type workflowFixture struct {
	svc      domain.Service
	balances balancedomain.Service
	conn     *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	tenantID snowflake.ID
}

func setupWorkflowService(t *testing.T) *workflowFixture {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := migration.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := seed.EnsureDefaultLeaveTypes(conn); err != nil {
		t.Fatalf("seed leave types: %v", err)
	}
	node := mustNode(t)
	fc := clock.NewFakeClock(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))
	principals := principalrepo.NewRepository(conn)
	balances := balancerepo.NewRepository(conn)
	svc := NewService(
		conn,
		zap.NewNop(),
		repository.NewRepository(conn),
		principals,
		balances,
		stubDrafter{},
		notification.NoOpNotifier{},
		noopAudit{},
		newTestMetrics(t),
		fc,
		node,
	)
	balanceSvc := balanceservice.NewService(conn, zap.NewNop(), balances, principals, node)
	return &workflowFixture{
		svc:      svc,
		balances: balanceSvc,
		conn:     conn,
		node:     node,
		clock:    fc,
		tenantID: node.Generate(),
	}
}

func (f *workflowFixture) createPrincipal(t *testing.T, role principaldomain.Role) *principaldomain.Principal {
	t.Helper()
	now := time.Now().UTC()
	id := f.node.Generate()
	p := principaldomain.Principal{
		ID:        id,
		TenantID:  f.tenantID,
		Email:     id.String() + "@initech.com",
		Name:      "Member " + id.String(),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.conn.Create(&p).Error; err != nil {
		t.Fatalf("create principal: %v", err)
	}
	if err := f.balances.Initialize(context.Background(), p.ID, p.TenantID); err != nil {
		t.Fatalf("initialize balances: %v", err)
	}
	return &p
}

func (f *workflowFixture) submit(t *testing.T, requesterID snowflake.ID, days int) *domain.LeaveRequest {
	t.Helper()
	start := f.clock.Now().AddDate(0, 0, 7)
	lr, err := f.svc.Submit(context.Background(), requesterID, domain.SubmitInput{
		LeaveType: "Casual Leave",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days-1),
		Reason:    "family visit",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return lr
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)

	lr := f.submit(t, emp.ID, 3)
	if lr.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", lr.Status)
	}
	if lr.Days != 3 {
		t.Fatalf("expected 3 days, got %d", lr.Days)
	}
	if lr.TenantID != emp.TenantID {
		t.Fatalf("request must snapshot the requester's tenant")
	}
	if lr.Draft == "" {
		t.Fatalf("expected a stored draft")
	}
}

func TestSubmitSingleDayRange(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)

	lr := f.submit(t, emp.ID, 1)
	if lr.Days != 1 {
		t.Fatalf("expected a single day, got %d", lr.Days)
	}
}

func TestSubmitRejectsInvalidRanges(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	ctx := context.Background()
	today := f.clock.Now()

	_, err := f.svc.Submit(ctx, emp.ID, domain.SubmitInput{
		LeaveType: "Casual Leave",
		StartDate: today.AddDate(0, 0, 5),
		EndDate:   today.AddDate(0, 0, 2),
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for reversed range, got %v", err)
	}

	_, err = f.svc.Submit(ctx, emp.ID, domain.SubmitInput{
		LeaveType: "Casual Leave",
		StartDate: today.AddDate(0, 0, -10),
		EndDate:   today.AddDate(0, 0, -5),
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for past range, got %v", err)
	}
}

func TestSubmitRangeEndingTodayIsAllowed(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)

	lr, err := f.svc.Submit(context.Background(), emp.ID, domain.SubmitInput{
		LeaveType: "Casual Leave",
		StartDate: f.clock.Now().AddDate(0, 0, -1),
		EndDate:   f.clock.Now(),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if lr.Days != 2 {
		t.Fatalf("expected 2 days, got %d", lr.Days)
	}
}

func TestSubmitUnknownLeaveType(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)

	_, err := f.svc.Submit(context.Background(), emp.ID, domain.SubmitInput{
		LeaveType: "Sabbatical",
		StartDate: f.clock.Now(),
		EndDate:   f.clock.Now(),
	})
	if !errors.Is(err, balancedomain.ErrUnknownLeaveType) {
		t.Fatalf("expected ErrUnknownLeaveType, got %v", err)
	}
}

func TestApproveDebitsBalance(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	mgr := f.createPrincipal(t, principaldomain.RoleManager)
	ctx := context.Background()

	lr := f.submit(t, emp.ID, 3)
	approved, err := f.svc.Approve(ctx, mgr.ID, lr.ID, "enjoy")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.ReviewerID == nil || *approved.ReviewerID != mgr.ID {
		t.Fatalf("expected reviewer %s recorded", mgr.ID)
	}
	if approved.Comment != "enjoy" {
		t.Fatalf("expected review comment stored")
	}

	views, err := f.balances.ListForPrincipal(ctx, emp.ID)
	if err != nil {
		t.Fatalf("list balances: %v", err)
	}
	for _, v := range views {
		if v.LeaveType == "Casual Leave" && v.Used != 3 {
			t.Fatalf("expected 3 days debited, got %d", v.Used)
		}
	}
}

func TestRejectLeavesBalanceUntouched(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	mgr := f.createPrincipal(t, principaldomain.RoleManager)
	ctx := context.Background()

	lr := f.submit(t, emp.ID, 3)
	rejected, err := f.svc.Reject(ctx, mgr.ID, lr.ID, "short staffed")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	views, err := f.balances.ListForPrincipal(ctx, emp.ID)
	if err != nil {
		t.Fatalf("list balances: %v", err)
	}
	for _, v := range views {
		if v.Used != 0 {
			t.Fatalf("rejection must not debit, got used=%d for %s", v.Used, v.LeaveType)
		}
	}
}

func TestApproveInsufficientBalance(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	mgr := f.createPrincipal(t, principaldomain.RoleManager)
	ctx := context.Background()

	// Casual Leave allocates 12 days; a 14-day request cannot be approved.
	lr := f.submit(t, emp.ID, 14)
	_, err := f.svc.Approve(ctx, mgr.ID, lr.ID, "")
	if !errors.Is(err, balancedomain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	got, err := f.svc.GetByID(ctx, emp.ID, lr.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("failed approval must leave the request pending, got %s", got.Status)
	}
}

func TestReviewGuardOrder(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	other := f.createPrincipal(t, principaldomain.RoleEmployee)
	mgr := f.createPrincipal(t, principaldomain.RoleManager)
	ctx := context.Background()

	lr := f.submit(t, emp.ID, 2)

	// An employee cannot review.
	if _, err := f.svc.Approve(ctx, other.ID, lr.ID, ""); !errors.Is(err, principaldomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Once finalized, the finality error wins over permission errors.
	if _, err := f.svc.Reject(ctx, mgr.ID, lr.ID, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := f.svc.Approve(ctx, other.ID, lr.ID, ""); !errors.Is(err, domain.ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized before ErrForbidden, got %v", err)
	}
}

func TestSelfApprovalBlocked(t *testing.T) {
	f := setupWorkflowService(t)
	mgr := f.createPrincipal(t, principaldomain.RoleManager)

	lr := f.submit(t, mgr.ID, 2)
	_, err := f.svc.Approve(context.Background(), mgr.ID, lr.ID, "")
	if !errors.Is(err, domain.ErrSelfApproval) {
		t.Fatalf("expected ErrSelfApproval, got %v", err)
	}
}

func TestCrossTenantReviewBlocked(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	lr := f.submit(t, emp.ID, 2)

	outsider := principaldomain.Principal{
		ID:        f.node.Generate(),
		TenantID:  f.node.Generate(),
		Email:     "gavin@hooli.com",
		Name:      "Gavin",
		Role:      principaldomain.RoleManager,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := f.conn.Create(&outsider).Error; err != nil {
		t.Fatalf("create outsider: %v", err)
	}

	_, err := f.svc.Approve(context.Background(), outsider.ID, lr.ID, "")
	if !errors.Is(err, principaldomain.ErrCrossTenant) {
		t.Fatalf("expected ErrCrossTenant, got %v", err)
	}
}

func TestConcurrentReviewsExactlyOneWins(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	mgrA := f.createPrincipal(t, principaldomain.RoleManager)
	mgrB := f.createPrincipal(t, principaldomain.RoleManager)
	ctx := context.Background()

	lr := f.submit(t, emp.ID, 2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.Approve(ctx, mgrA.ID, lr.ID, "")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.Reject(ctx, mgrB.ID, lr.ID, "")
	}()
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		if !errors.Is(err, domain.ErrAlreadyFinalized) && !errors.Is(err, domain.ErrConcurrentModification) {
			t.Fatalf("unexpected review error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one review to win, got %d", winners)
	}

	got, err := f.svc.GetByID(ctx, emp.ID, lr.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status == domain.StatusPending {
		t.Fatalf("request must be finalized after concurrent reviews")
	}
}

func TestCancelPendingRequest(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	ctx := context.Background()

	lr := f.submit(t, emp.ID, 2)
	cancelled, err := f.svc.Cancel(ctx, emp.ID, lr.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
}

func TestCancelIsRequesterOnly(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	mgr := f.createPrincipal(t, principaldomain.RoleManager)

	lr := f.submit(t, emp.ID, 2)
	_, err := f.svc.Cancel(context.Background(), mgr.ID, lr.ID)
	if !errors.Is(err, principaldomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCancelFinalizedRequest(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	mgr := f.createPrincipal(t, principaldomain.RoleManager)
	ctx := context.Background()

	lr := f.submit(t, emp.ID, 2)
	if _, err := f.svc.Approve(ctx, mgr.ID, lr.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err := f.svc.Cancel(ctx, emp.ID, lr.ID)
	if !errors.Is(err, domain.ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
}

func TestGetByIDTenantScoping(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	other := f.createPrincipal(t, principaldomain.RoleEmployee)
	ctx := context.Background()

	lr := f.submit(t, emp.ID, 2)

	// Same tenant, neither owner nor reviewer.
	if _, err := f.svc.GetByID(ctx, other.ID, lr.ID); !errors.Is(err, principaldomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	outsider := principaldomain.Principal{
		ID:        f.node.Generate(),
		TenantID:  f.node.Generate(),
		Email:     "gavin@hooli.com",
		Name:      "Gavin",
		Role:      principaldomain.RoleHR,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := f.conn.Create(&outsider).Error; err != nil {
		t.Fatalf("create outsider: %v", err)
	}
	if _, err := f.svc.GetByID(ctx, outsider.ID, lr.ID); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("cross-tenant reads must look absent, got %v", err)
	}
}

func TestListPendingForReviewer(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)
	mgr := f.createPrincipal(t, principaldomain.RoleManager)
	ctx := context.Background()

	first := f.submit(t, emp.ID, 2)
	second := f.submit(t, emp.ID, 1)
	if _, err := f.svc.Reject(ctx, mgr.ID, second.ID, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	pending, err := f.svc.ListPendingForReviewer(ctx, mgr.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != first.ID {
		t.Fatalf("expected only the pending request, got %d entries", len(pending))
	}

	if _, err := f.svc.ListPendingForReviewer(ctx, emp.ID); !errors.Is(err, principaldomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for employee, got %v", err)
	}
}

func TestListForRequester(t *testing.T) {
	f := setupWorkflowService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)

	f.submit(t, emp.ID, 2)
	f.submit(t, emp.ID, 1)

	list, err := f.svc.ListForRequester(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(list))
	}
}
