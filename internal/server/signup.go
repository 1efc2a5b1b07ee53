package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	signupdomain "github.com/leavesync/leavesync/internal/signup/domain"
)

type SignupRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SignupResponse struct {
	TenantID     string `json:"tenant_id"`
	TenantDomain string `json:"tenant_domain"`
	PrincipalID  string `json:"principal_id"`
	Role         string `json:"role"`
}

func (s *Server) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.signupSvc.Signup(c.Request.Context(), signupdomain.Request{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SignupResponse{
		TenantID:     result.Tenant.ID.String(),
		TenantDomain: result.Tenant.Domain,
		PrincipalID:  result.Principal.ID.String(),
		Role:         result.Principal.Role.String(),
	})
}
