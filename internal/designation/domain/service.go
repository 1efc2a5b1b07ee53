package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
)

type Service interface {
	// Add records a designation on behalf of actor. Guards are evaluated in
	// order: Forbidden, DomainMismatch, SelfDesignation, AlreadyRegistered.
	// An existing active designation for the same email is superseded.
	Add(ctx context.Context, actorID snowflake.ID, email string, role principaldomain.Role) (*RoleDesignation, error)

	// Consume deactivates and returns the active designation for the email,
	// if any. Concurrent consumers of the same designation see it exactly
	// once; losers get ErrDesignationNotFound.
	Consume(ctx context.Context, tenantID snowflake.ID, email string) (*RoleDesignation, error)

	List(ctx context.Context, tenantID snowflake.ID) ([]RoleDesignation, error)
}

var (
	ErrSelfDesignation     = errors.New("self_designation")
	ErrDesignationNotFound = errors.New("designation_not_found")
)
