package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
	balancedomain "github.com/leavesync/leavesync/internal/balance/domain"
	"github.com/leavesync/leavesync/internal/clock"
	"github.com/leavesync/leavesync/internal/draft"
	"github.com/leavesync/leavesync/internal/notification"
	"github.com/leavesync/leavesync/internal/observability/metrics"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	"github.com/leavesync/leavesync/internal/workflow/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxAttempts = 3

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	principals principaldomain.Repository
	balances   balancedomain.Repository
	drafter    draft.Drafter
	notifier   notification.Notifier
	audit      auditdomain.Service
	metrics    *metrics.Metrics
	clock      clock.Clock
	genID      *snowflake.Node
}

func NewService(
	conn *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	principals principaldomain.Repository,
	balances balancedomain.Repository,
	drafter draft.Drafter,
	notifier notification.Notifier,
	audit auditdomain.Service,
	m *metrics.Metrics,
	clk clock.Clock,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:         conn,
		log:        log.Named("workflow.service"),
		repo:       repo,
		principals: principals,
		balances:   balances,
		drafter:    drafter,
		notifier:   notifier,
		audit:      audit,
		metrics:    m,
		clock:      clk,
		genID:      genID,
	}
}

func (s *service) Submit(ctx context.Context, requesterID snowflake.ID, in domain.SubmitInput) (*domain.LeaveRequest, error) {
	requester, err := s.principals.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if _, err := s.balances.GetTypeByName(ctx, in.LeaveType); err != nil {
		return nil, err
	}

	start := dateOnly(in.StartDate)
	end := dateOnly(in.EndDate)
	today := dateOnly(s.clock.Now())
	if start.After(end) {
		return nil, domain.ErrInvalidRange
	}
	if end.Before(today) {
		return nil, domain.ErrInvalidRange
	}
	days := int(end.Sub(start).Hours()/24) + 1

	draftText, err := s.drafter.Draft(ctx, draft.Input{
		RequesterName: requester.Name,
		LeaveType:     in.LeaveType,
		StartDate:     start,
		EndDate:       end,
		Days:          days,
		Reason:        in.Reason,
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	lr := domain.LeaveRequest{
		ID:          s.genID.Generate(),
		PrincipalID: requester.ID,
		TenantID:    requester.TenantID,
		LeaveType:   in.LeaveType,
		StartDate:   start,
		EndDate:     end,
		Days:        days,
		Reason:      strings.TrimSpace(in.Reason),
		Draft:       draftText,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, lr); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditdomain.Entry{
		TenantID:   lr.TenantID,
		ActorID:    requester.ID,
		Action:     auditdomain.ActionLeaveSubmitted,
		Resource:   "leave_request",
		ResourceID: lr.ID.String(),
		Metadata: datatypes.JSONMap{
			"leave_type": lr.LeaveType,
			"days":       lr.Days,
		},
	})
	s.notifier.Notify(ctx, notification.Message{
		Event:         notification.EventLeaveSubmitted,
		Recipient:     requester.Email,
		RecipientName: requester.Name,
		LeaveType:     lr.LeaveType,
		StartDate:     lr.StartDate,
		EndDate:       lr.EndDate,
		Days:          lr.Days,
	})
	s.metrics.RecordLeaveTransition(ctx, string(domain.StatusPending))

	s.log.Info("leave request submitted",
		zap.String("request_id", lr.ID.String()),
		zap.String("tenant_id", lr.TenantID.String()),
		zap.String("leave_type", lr.LeaveType),
		zap.Int("days", lr.Days),
	)
	return &lr, nil
}

func (s *service) Approve(ctx context.Context, reviewerID, requestID snowflake.ID, comment string) (*domain.LeaveRequest, error) {
	return s.review(ctx, reviewerID, requestID, domain.StatusApproved, comment)
}

func (s *service) Reject(ctx context.Context, reviewerID, requestID snowflake.ID, comment string) (*domain.LeaveRequest, error) {
	return s.review(ctx, reviewerID, requestID, domain.StatusRejected, comment)
}

func (s *service) review(ctx context.Context, reviewerID, requestID snowflake.ID, to domain.Status, comment string) (*domain.LeaveRequest, error) {
	var out *domain.LeaveRequest
	err := s.withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			lr, err := repo.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			if lr.Status != domain.StatusPending {
				return domain.ErrAlreadyFinalized
			}

			reviewer, err := s.principals.WithTx(tx).GetByID(ctx, reviewerID)
			if err != nil {
				return err
			}
			if !reviewer.Role.CanReview() {
				return principaldomain.ErrForbidden
			}
			if reviewer.TenantID != lr.TenantID {
				return principaldomain.ErrCrossTenant
			}
			if reviewer.ID == lr.PrincipalID {
				return domain.ErrSelfApproval
			}

			if to == domain.StatusApproved {
				balances := s.balances.WithTx(tx)
				lt, err := balances.GetTypeByName(ctx, lr.LeaveType)
				if err != nil {
					return err
				}
				ok, err := balances.Debit(ctx, lr.PrincipalID, lt.ID, lr.Days)
				if err != nil {
					return err
				}
				if !ok {
					return balancedomain.ErrInsufficientBalance
				}
			}

			now := s.clock.Now()
			ok, err := repo.Review(ctx, lr.ID, to, reviewerID, now, comment)
			if err != nil {
				return err
			}
			if !ok {
				// Lost the transition race after the pending read.
				return domain.ErrAlreadyFinalized
			}

			lr.Status = to
			lr.ReviewerID = &reviewerID
			lr.ReviewedAt = &now
			lr.Comment = comment
			out = lr
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	action := auditdomain.ActionLeaveApproved
	event := notification.EventLeaveApproved
	if to == domain.StatusRejected {
		action = auditdomain.ActionLeaveRejected
		event = notification.EventLeaveRejected
	}
	s.audit.Record(ctx, auditdomain.Entry{
		TenantID:   out.TenantID,
		ActorID:    reviewerID,
		Action:     action,
		Resource:   "leave_request",
		ResourceID: out.ID.String(),
		Metadata: datatypes.JSONMap{
			"leave_type": out.LeaveType,
			"days":       out.Days,
			"comment":    comment,
		},
	})
	s.notifyRequester(ctx, out, event)
	s.metrics.RecordLeaveTransition(ctx, string(to))

	return out, nil
}

func (s *service) Cancel(ctx context.Context, requesterID, requestID snowflake.ID) (*domain.LeaveRequest, error) {
	var out *domain.LeaveRequest
	err := s.withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			lr, err := repo.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			if lr.PrincipalID != requesterID {
				return principaldomain.ErrForbidden
			}
			if lr.Status != domain.StatusPending {
				return domain.ErrAlreadyFinalized
			}

			ok, err := repo.CancelPending(ctx, lr.ID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrAlreadyFinalized
			}
			lr.Status = domain.StatusCancelled
			out = lr
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditdomain.Entry{
		TenantID:   out.TenantID,
		ActorID:    requesterID,
		Action:     auditdomain.ActionLeaveCancelled,
		Resource:   "leave_request",
		ResourceID: out.ID.String(),
	})
	s.notifyRequester(ctx, out, notification.EventLeaveCancelled)
	s.metrics.RecordLeaveTransition(ctx, string(domain.StatusCancelled))

	return out, nil
}

func (s *service) GetByID(ctx context.Context, actorID, requestID snowflake.ID) (*domain.LeaveRequest, error) {
	actor, err := s.principals.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	lr, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	// Requests from other tenants are indistinguishable from absent ones.
	if lr.TenantID != actor.TenantID {
		return nil, domain.ErrRequestNotFound
	}
	if lr.PrincipalID != actor.ID && !actor.Role.CanReview() {
		return nil, principaldomain.ErrForbidden
	}
	return lr, nil
}

func (s *service) ListPendingForReviewer(ctx context.Context, reviewerID snowflake.ID) ([]domain.LeaveRequest, error) {
	reviewer, err := s.principals.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if !reviewer.Role.CanReview() {
		return nil, principaldomain.ErrForbidden
	}
	return s.repo.ListPendingByTenant(ctx, reviewer.TenantID)
}

func (s *service) ListForRequester(ctx context.Context, requesterID snowflake.ID) ([]domain.LeaveRequest, error) {
	return s.repo.ListByPrincipal(ctx, requesterID)
}

func (s *service) notifyRequester(ctx context.Context, lr *domain.LeaveRequest, event notification.Event) {
	requester, err := s.principals.GetByID(ctx, lr.PrincipalID)
	if err != nil {
		s.log.Warn("requester lookup failed for notification",
			zap.String("request_id", lr.ID.String()), zap.Error(err))
		return
	}
	s.notifier.Notify(ctx, notification.Message{
		Event:         event,
		Recipient:     requester.Email,
		RecipientName: requester.Name,
		LeaveType:     lr.LeaveType,
		StartDate:     lr.StartDate,
		EndDate:       lr.EndDate,
		Days:          lr.Days,
		Status:        string(lr.Status),
		Comment:       lr.Comment,
	})
}

// withRetry reruns fn on transient storage conflicts, up to maxAttempts.
// Domain errors pass through untouched.
func (s *service) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !isRetryable(err) {
			return err
		}
		s.log.Warn("transaction conflict, retrying",
			zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
		}
	}
	return domain.ErrConcurrentModification
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected")
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
