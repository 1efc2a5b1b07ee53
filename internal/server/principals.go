package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
)

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (s *Server) Me(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) ListPrincipals(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	principals, err := s.principalSvc.ListByTenant(c.Request.Context(), p.TenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"principals": principals})
}

func (s *Server) ChangeRole(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	targetID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, principaldomain.ErrPrincipalNotFound)
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	role, err := principaldomain.ParseRole(req.Role)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := s.principalSvc.ChangeRole(c.Request.Context(), p.ID, targetID, role)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
