package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
)

type AddDesignationRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

func (s *Server) ListDesignations(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	designations, err := s.designationSvc.List(c.Request.Context(), p.TenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"designations": designations})
}

func (s *Server) AddDesignation(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req AddDesignationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	role, err := principaldomain.ParseRole(req.Role)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	d, err := s.designationSvc.Add(c.Request.Context(), p.ID, req.Email, role)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}
