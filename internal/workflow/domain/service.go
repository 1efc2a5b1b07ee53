package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubmitInput carries the requester-provided fields of a new request.
type SubmitInput struct {
	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

type Service interface {
	// Submit validates the range, snapshots the requester's tenant, stores
	// a draft message and creates the request as Pending.
	Submit(ctx context.Context, requesterID snowflake.ID, in SubmitInput) (*LeaveRequest, error)

	// Approve and Reject finalize a pending request. Guards are evaluated
	// in order: AlreadyFinalized, Forbidden, CrossTenant, SelfApproval.
	// Approve debits the requester's balance in the same transaction.
	Approve(ctx context.Context, reviewerID, requestID snowflake.ID, comment string) (*LeaveRequest, error)
	Reject(ctx context.Context, reviewerID, requestID snowflake.ID, comment string) (*LeaveRequest, error)

	// Cancel is requester-only and applies to pending requests only.
	Cancel(ctx context.Context, requesterID, requestID snowflake.ID) (*LeaveRequest, error)

	GetByID(ctx context.Context, actorID, requestID snowflake.ID) (*LeaveRequest, error)
	ListPendingForReviewer(ctx context.Context, reviewerID snowflake.ID) ([]LeaveRequest, error)
	ListForRequester(ctx context.Context, requesterID snowflake.ID) ([]LeaveRequest, error)
}

var (
	ErrRequestNotFound        = errors.New("request_not_found")
	ErrInvalidRange           = errors.New("invalid_range")
	ErrSelfApproval           = errors.New("self_approval")
	ErrAlreadyFinalized       = errors.New("already_finalized")
	ErrConcurrentModification = errors.New("concurrent_modification")
)
