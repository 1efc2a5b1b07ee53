package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/audit/domain"
	"github.com/leavesync/leavesync/internal/audit/repository"
	"github.com/leavesync/leavesync/internal/auditcontext"
	"github.com/leavesync/leavesync/internal/migration"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	principalrepo "github.com/leavesync/leavesync/internal/principal/repository"
	"github.com/leavesync/leavesync/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

type auditFixture struct {
	svc      domain.Service
	conn     *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
}

func setupAuditService(t *testing.T) *auditFixture {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := migration.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node := mustNode(t)
	svc := NewService(
		conn,
		zap.NewNop(),
		repository.NewRepository(conn),
		principalrepo.NewRepository(conn),
		node,
	)
	return &auditFixture{svc: svc, conn: conn, node: node, tenantID: node.Generate()}
}

func (f *auditFixture) createPrincipal(t *testing.T, role principaldomain.Role) *principaldomain.Principal {
	t.Helper()
	now := time.Now().UTC()
	id := f.node.Generate()
	p := principaldomain.Principal{
		ID:        id,
		TenantID:  f.tenantID,
		Email:     id.String() + "@initech.com",
		Name:      "Member",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.conn.Create(&p).Error; err != nil {
		t.Fatalf("create principal: %v", err)
	}
	return &p
}

func TestRecordFillsCorrelationFields(t *testing.T) {
	f := setupAuditService(t)
	hr := f.createPrincipal(t, principaldomain.RoleHR)

	ctx := auditcontext.WithRequestID(context.Background(), "req-123")
	ctx = auditcontext.WithIPAddress(ctx, "10.0.0.1")
	ctx = auditcontext.WithUserAgent(ctx, "agent/1.0")

	f.svc.Record(ctx, domain.Entry{
		TenantID: f.tenantID,
		ActorID:  hr.ID,
		Action:   domain.ActionSignup,
		Resource: "principal",
	})

	var stored domain.Entry
	if err := f.conn.First(&stored, "tenant_id = ?", f.tenantID).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if stored.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if stored.RequestID != "req-123" || stored.IPAddress != "10.0.0.1" || stored.UserAgent != "agent/1.0" {
		t.Fatalf("correlation fields not filled: %+v", stored)
	}
}

func TestListRequiresHR(t *testing.T) {
	f := setupAuditService(t)
	emp := f.createPrincipal(t, principaldomain.RoleEmployee)

	_, err := f.svc.List(context.Background(), emp.ID, domain.ListQuery{})
	if !errors.Is(err, principaldomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListFiltersAndScopes(t *testing.T) {
	f := setupAuditService(t)
	hr := f.createPrincipal(t, principaldomain.RoleHR)
	ctx := context.Background()

	f.svc.Record(ctx, domain.Entry{TenantID: f.tenantID, Action: domain.ActionSignup, Resource: "principal"})
	f.svc.Record(ctx, domain.Entry{TenantID: f.tenantID, Action: domain.ActionLeaveSubmitted, Resource: "leave_request"})
	f.svc.Record(ctx, domain.Entry{TenantID: f.node.Generate(), Action: domain.ActionSignup, Resource: "principal"})

	entries, err := f.svc.List(ctx, hr.ID, domain.ListQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 tenant entries, got %d", len(entries))
	}

	entries, err = f.svc.List(ctx, hr.ID, domain.ListQuery{Action: domain.ActionSignup})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != domain.ActionSignup {
		t.Fatalf("expected one signup entry, got %+v", entries)
	}
}

func TestListPagesByCursor(t *testing.T) {
	f := setupAuditService(t)
	hr := f.createPrincipal(t, principaldomain.RoleHR)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.svc.Record(ctx, domain.Entry{TenantID: f.tenantID, Action: domain.ActionSignup, Resource: "principal"})
	}

	first, err := f.svc.List(ctx, hr.ID, domain.ListQuery{Limit: 2})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(first))
	}
	if first[0].ID < first[1].ID {
		t.Fatalf("expected newest first ordering")
	}

	second, err := f.svc.List(ctx, hr.ID, domain.ListQuery{Limit: 2, Cursor: first[1].ID})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 entries on the second page, got %d", len(second))
	}
	if second[0].ID >= first[1].ID {
		t.Fatalf("second page must be strictly older than the cursor")
	}
}
