package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/leavesync/leavesync/internal/observability/context"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	"github.com/leavesync/leavesync/pkg/tenantctx"
)

const (
	// HeaderPrincipal carries the authenticated principal's ID, set by the
	// auth layer in front of this service.
	HeaderPrincipal = "X-Principal-ID"

	contextPrincipalKey = "principal"
)

// PrincipalRequired resolves the calling principal from the identity
// header and injects principal and tenant into the request context.
func (s *Server) PrincipalRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderPrincipal))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.principalSvc.GetByID(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := tenantctx.WithPrincipalID(c.Request.Context(), principal.ID)
		ctx = tenantctx.WithTenantID(ctx, principal.TenantID)
		ctx = obscontext.WithActor(ctx, "principal", principal.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextPrincipalKey, principal)

		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (*principaldomain.Principal, bool) {
	v, ok := c.Get(contextPrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*principaldomain.Principal)
	return p, ok
}

// RequireRole gates a route on the caller holding at least the given role.
func (s *Server) RequireRole(min principaldomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := currentPrincipal(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !p.Role.AtLeast(min) {
			AbortWithError(c, principaldomain.ErrForbidden)
			return
		}
		c.Next()
	}
}
