package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/balance/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateType(ctx context.Context, t domain.LeaveType) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO leave_types (id, name, default_days, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.DefaultDays, t.CreatedAt,
	).Error
}

func (r *repository) GetTypeByName(ctx context.Context, name string) (*domain.LeaveType, error) {
	var t domain.LeaveType
	err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownLeaveType
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListTypes(ctx context.Context) ([]domain.LeaveType, error) {
	var types []domain.LeaveType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *repository) UpsertPolicy(ctx context.Context, p domain.TenantLeavePolicy) (*domain.TenantLeavePolicy, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE tenant_leave_policies SET days = ?, updated_at = ?
		 WHERE tenant_id = ? AND leave_type_id = ?`,
		p.Days, p.UpdatedAt, p.TenantID, p.LeaveTypeID,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		err := r.db.WithContext(ctx).Exec(
			`INSERT INTO tenant_leave_policies (id, tenant_id, leave_type_id, days, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.TenantID, p.LeaveTypeID, p.Days, p.CreatedAt, p.UpdatedAt,
		).Error
		if err != nil {
			return nil, err
		}
		return &p, nil
	}

	var updated domain.TenantLeavePolicy
	err := r.db.WithContext(ctx).
		First(&updated, "tenant_id = ? AND leave_type_id = ?", p.TenantID, p.LeaveTypeID).Error
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *repository) ListPolicies(ctx context.Context, tenantID snowflake.ID) ([]domain.TenantLeavePolicy, error) {
	var policies []domain.TenantLeavePolicy
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *repository) CreateBalance(ctx context.Context, b domain.LeaveBalance) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO leave_balances (id, principal_id, leave_type_id, allocated, used, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.PrincipalID, b.LeaveTypeID, b.Allocated, b.Used, b.CreatedAt, b.UpdatedAt,
	).Error
}

func (r *repository) GetBalance(ctx context.Context, principalID, leaveTypeID snowflake.ID) (*domain.LeaveBalance, error) {
	var b domain.LeaveBalance
	err := r.db.WithContext(ctx).
		First(&b, "principal_id = ? AND leave_type_id = ?", principalID, leaveTypeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBalances(ctx context.Context, principalID snowflake.ID) ([]domain.BalanceView, error) {
	var views []domain.BalanceView
	err := r.db.WithContext(ctx).
		Table("leave_balances").
		Select(`leave_types.name AS leave_type,
			leave_balances.allocated AS allocated,
			leave_balances.used AS used,
			leave_balances.allocated - leave_balances.used AS remaining`).
		Joins("JOIN leave_types ON leave_types.id = leave_balances.leave_type_id").
		Where("leave_balances.principal_id = ?", principalID).
		Order("leave_types.name ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repository) Debit(ctx context.Context, principalID, leaveTypeID snowflake.ID, days int) (bool, error) {
	// The guard lives in the WHERE clause so concurrent debits cannot
	// overdraw the balance.
	result := r.db.WithContext(ctx).Exec(
		`UPDATE leave_balances SET used = used + ?, updated_at = ?
		 WHERE principal_id = ? AND leave_type_id = ? AND used + ? <= allocated`,
		days, time.Now().UTC(), principalID, leaveTypeID, days,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) Credit(ctx context.Context, principalID, leaveTypeID snowflake.ID, days int) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE leave_balances
		 SET used = CASE WHEN used - ? < 0 THEN 0 ELSE used - ? END, updated_at = ?
		 WHERE principal_id = ? AND leave_type_id = ?`,
		days, days, time.Now().UTC(), principalID, leaveTypeID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrBalanceNotFound
	}
	return nil
}
