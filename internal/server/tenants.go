package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
)

func (s *Server) VerifyTenant(c *gin.Context) {
	tenantID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, tenantdomain.ErrTenantNotFound)
		return
	}

	ctx := c.Request.Context()
	if err := s.tenantSvc.MarkVerified(ctx, tenantID); err != nil {
		AbortWithError(c, err)
		return
	}
	tenant, err := s.tenantSvc.GetByID(ctx, tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}
