package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
	designationdomain "github.com/leavesync/leavesync/internal/designation/domain"
	designationrepo "github.com/leavesync/leavesync/internal/designation/repository"
	"github.com/leavesync/leavesync/internal/migration"
	"github.com/leavesync/leavesync/internal/notification"
	"github.com/leavesync/leavesync/internal/observability/metrics"
	"github.com/leavesync/leavesync/internal/principal/domain"
	"github.com/leavesync/leavesync/internal/principal/repository"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
	tenantrepo "github.com/leavesync/leavesync/internal/tenant/repository"
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

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	return m
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

type principalFixture struct {
	svc          domain.Service
	conn         *gorm.DB
	node         *snowflake.Node
	designations designationdomain.Repository
}

func setupPrincipalService(t *testing.T) *principalFixture {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := migration.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node := mustNode(t)
	designations := designationrepo.NewRepository(conn)
	svc := NewService(
		conn,
		zap.NewNop(),
		repository.NewRepository(conn),
		tenantrepo.NewRepository(conn),
		designations,
		noopAudit{},
		notification.NoOpNotifier{},
		newTestMetrics(t),
		node,
	)
	return &principalFixture{svc: svc, conn: conn, node: node, designations: designations}
}

func (f *principalFixture) createTenant(t *testing.T, dom string) *tenantdomain.Tenant {
	t.Helper()
	now := time.Now().UTC()
	tenant := tenantdomain.Tenant{
		ID:        f.node.Generate(),
		Name:      dom,
		Domain:    dom,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.conn.Create(&tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	return &tenant
}

func (f *principalFixture) addDesignation(t *testing.T, tenantID snowflake.ID, email string, role domain.Role) designationdomain.RoleDesignation {
	t.Helper()
	now := time.Now().UTC()
	d := designationdomain.RoleDesignation{
		ID:        f.node.Generate(),
		TenantID:  tenantID,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.conn.Create(&d).Error; err != nil {
		t.Fatalf("create designation: %v", err)
	}
	return d
}

func TestRegisterFirstPrincipalBecomesHR(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")

	p, err := f.svc.Register(context.Background(), tenant, "alice@initech.com", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.Role != domain.RoleHR {
		t.Fatalf("expected first principal to get hr, got %s", p.Role)
	}

	var stored tenantdomain.Tenant
	if err := f.conn.First(&stored, "id = ?", tenant.ID).Error; err != nil {
		t.Fatalf("reload tenant: %v", err)
	}
	if !stored.FirstPrincipalGranted {
		t.Fatalf("bootstrap flag must be set after the first registration")
	}
}

func TestRegisterSecondPrincipalBecomesEmployee(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, tenant, "alice@initech.com", "Alice"); err != nil {
		t.Fatalf("register first: %v", err)
	}
	p, err := f.svc.Register(ctx, tenant, "bob@initech.com", "Bob")
	if err != nil {
		t.Fatalf("register second: %v", err)
	}
	if p.Role != domain.RoleEmployee {
		t.Fatalf("expected employee, got %s", p.Role)
	}
}

func TestRegisterConsumesDesignation(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, tenant, "alice@initech.com", "Alice"); err != nil {
		t.Fatalf("register hr: %v", err)
	}
	d := f.addDesignation(t, tenant.ID, "bob@initech.com", domain.RoleManager)

	p, err := f.svc.Register(ctx, tenant, "bob@initech.com", "Bob")
	if err != nil {
		t.Fatalf("register designated: %v", err)
	}
	if p.Role != domain.RoleManager {
		t.Fatalf("expected manager from designation, got %s", p.Role)
	}

	var stored designationdomain.RoleDesignation
	if err := f.conn.First(&stored, "id = ?", d.ID).Error; err != nil {
		t.Fatalf("reload designation: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("designation must be deactivated after consumption")
	}
}

func TestRegisterDomainMismatch(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")

	_, err := f.svc.Register(context.Background(), tenant, "alice@hooli.com", "Alice")
	if !errors.Is(err, domain.ErrDomainMismatch) {
		t.Fatalf("expected ErrDomainMismatch, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, tenant, "alice@initech.com", "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := f.svc.Register(ctx, tenant, "Alice@Initech.com", "Alice Again")
	if !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterDefaultsNameToLocalPart(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")

	p, err := f.svc.Register(context.Background(), tenant, "alice@initech.com", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.Name != "alice" {
		t.Fatalf("expected name alice, got %q", p.Name)
	}
}

func TestConcurrentRegistrationsSingleHR(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")

	emails := []string{
		"a@initech.com", "b@initech.com", "c@initech.com", "d@initech.com",
	}
	var wg sync.WaitGroup
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			if _, err := f.svc.Register(context.Background(), tenant, email, ""); err != nil {
				t.Errorf("register %s: %v", email, err)
			}
		}(email)
	}
	wg.Wait()

	var hrCount int64
	if err := f.conn.Model(&domain.Principal{}).
		Where("tenant_id = ? AND role = ?", tenant.ID, domain.RoleHR).
		Count(&hrCount).Error; err != nil {
		t.Fatalf("count hr: %v", err)
	}
	if hrCount != 1 {
		t.Fatalf("expected exactly one hr principal, got %d", hrCount)
	}
}

func TestChangeRoleRequiresHR(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")
	ctx := context.Background()

	hr, err := f.svc.Register(ctx, tenant, "alice@initech.com", "Alice")
	if err != nil {
		t.Fatalf("register hr: %v", err)
	}
	emp, err := f.svc.Register(ctx, tenant, "bob@initech.com", "Bob")
	if err != nil {
		t.Fatalf("register employee: %v", err)
	}

	_, err = f.svc.ChangeRole(ctx, emp.ID, hr.ID, domain.RoleEmployee)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := f.svc.ChangeRole(ctx, hr.ID, emp.ID, domain.RoleManager)
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if updated.Role != domain.RoleManager {
		t.Fatalf("expected manager, got %s", updated.Role)
	}
}

func TestChangeRoleCrossTenant(t *testing.T) {
	f := setupPrincipalService(t)
	ctx := context.Background()

	tenantA := f.createTenant(t, "initech.com")
	tenantB := f.createTenant(t, "hooli.com")

	hr, err := f.svc.Register(ctx, tenantA, "alice@initech.com", "Alice")
	if err != nil {
		t.Fatalf("register hr: %v", err)
	}
	other, err := f.svc.Register(ctx, tenantB, "gavin@hooli.com", "Gavin")
	if err != nil {
		t.Fatalf("register other: %v", err)
	}

	_, err = f.svc.ChangeRole(ctx, hr.ID, other.ID, domain.RoleManager)
	if !errors.Is(err, domain.ErrCrossTenant) {
		t.Fatalf("expected ErrCrossTenant, got %v", err)
	}
}

func TestChangeRoleSelfEscalationBlocked(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")
	ctx := context.Background()

	hr, err := f.svc.Register(ctx, tenant, "alice@initech.com", "Alice")
	if err != nil {
		t.Fatalf("register hr: %v", err)
	}

	_, err = f.svc.ChangeRole(ctx, hr.ID, hr.ID, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrSelfEscalation) {
		t.Fatalf("expected ErrSelfEscalation, got %v", err)
	}

	// Sideways or downward self-changes to privileged roles are blocked too.
	_, err = f.svc.ChangeRole(ctx, hr.ID, hr.ID, domain.RoleManager)
	if !errors.Is(err, domain.ErrSelfEscalation) {
		t.Fatalf("expected ErrSelfEscalation for self-change to manager, got %v", err)
	}
	_, err = f.svc.ChangeRole(ctx, hr.ID, hr.ID, domain.RoleHR)
	if !errors.Is(err, domain.ErrSelfEscalation) {
		t.Fatalf("expected ErrSelfEscalation for self-change to hr, got %v", err)
	}

	// Stepping down to employee is the only permitted self-change.
	updated, err := f.svc.ChangeRole(ctx, hr.ID, hr.ID, domain.RoleEmployee)
	if err != nil {
		t.Fatalf("self demotion: %v", err)
	}
	if updated.Role != domain.RoleEmployee {
		t.Fatalf("expected employee after demotion, got %s", updated.Role)
	}
}

func TestChangeRoleInvalidRole(t *testing.T) {
	f := setupPrincipalService(t)
	tenant := f.createTenant(t, "initech.com")
	ctx := context.Background()

	hr, err := f.svc.Register(ctx, tenant, "alice@initech.com", "Alice")
	if err != nil {
		t.Fatalf("register hr: %v", err)
	}

	_, err = f.svc.ChangeRole(ctx, hr.ID, hr.ID, domain.Role("overlord"))
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
