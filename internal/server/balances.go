package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SetPolicyRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	Days      int    `json:"days" binding:"required"`
}

func (s *Server) ListBalances(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	balances, err := s.balanceSvc.ListForPrincipal(c.Request.Context(), p.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

func (s *Server) ListLeaveTypes(c *gin.Context) {
	types, err := s.balanceSvc.ListTypes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leave_types": types})
}

func (s *Server) SetLeavePolicy(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req SetPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.Days <= 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	policy, err := s.balanceSvc.SetPolicy(c.Request.Context(), p.ID, req.LeaveType, req.Days)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}
