package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/workflow/domain"
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

func (r *repository) Create(ctx context.Context, lr domain.LeaveRequest) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO leave_requests
		 (id, principal_id, tenant_id, leave_type, start_date, end_date, days, reason, draft, status, comment, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lr.ID,
		lr.PrincipalID,
		lr.TenantID,
		lr.LeaveType,
		lr.StartDate,
		lr.EndDate,
		lr.Days,
		lr.Reason,
		lr.Draft,
		lr.Status,
		lr.Comment,
		lr.CreatedAt,
		lr.UpdatedAt,
	).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.LeaveRequest, error) {
	var lr domain.LeaveRequest
	err := r.db.WithContext(ctx).First(&lr, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &lr, nil
}

func (r *repository) Review(ctx context.Context, id snowflake.ID, to domain.Status, reviewerID snowflake.ID, reviewedAt time.Time, comment string) (bool, error) {
	// The pending precondition in the WHERE clause serializes concurrent
	// reviewers: exactly one transition succeeds.
	result := r.db.WithContext(ctx).Exec(
		`UPDATE leave_requests
		 SET status = ?, reviewer_id = ?, reviewed_at = ?, comment = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		to, reviewerID, reviewedAt, comment, reviewedAt, id, domain.StatusPending,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) CancelPending(ctx context.Context, id snowflake.ID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE leave_requests SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusCancelled, time.Now().UTC(), id, domain.StatusPending,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) ListPendingByTenant(ctx context.Context, tenantID snowflake.ID) ([]domain.LeaveRequest, error) {
	var requests []domain.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, domain.StatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) ListByPrincipal(ctx context.Context, principalID snowflake.ID) ([]domain.LeaveRequest, error) {
	var requests []domain.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("principal_id = ?", principalID).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
