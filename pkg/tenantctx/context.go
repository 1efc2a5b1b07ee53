// Package tenantctx carries the request's tenant and principal identity.
package tenantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type tenantKey struct{}
type principalKey struct{}

// WithTenantID stores the active tenant ID in the context.
func WithTenantID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, tenantKey{}, id)
}

// TenantID returns the active tenant ID, if set.
func TenantID(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(tenantKey{}).(snowflake.ID)
	return id, ok
}

// WithPrincipalID stores the authenticated principal ID in the context.
func WithPrincipalID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, principalKey{}, id)
}

// PrincipalID returns the authenticated principal ID, if set.
func PrincipalID(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(principalKey{}).(snowflake.ID)
	return id, ok
}
