package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	workflowdomain "github.com/leavesync/leavesync/internal/workflow/domain"
)

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

func (s *Server) SubmitLeaveRequest(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		AbortWithError(c, workflowdomain.ErrInvalidRange)
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		AbortWithError(c, workflowdomain.ErrInvalidRange)
		return
	}

	lr, err := s.workflowSvc.Submit(c.Request.Context(), p.ID, workflowdomain.SubmitInput{
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lr)
}

func (s *Server) ListMyLeaveRequests(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	requests, err := s.workflowSvc.ListForRequester(c.Request.Context(), p.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leave_requests": requests})
}

func (s *Server) ListPendingLeaveRequests(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	requests, err := s.workflowSvc.ListPendingForReviewer(c.Request.Context(), p.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leave_requests": requests})
}

func (s *Server) GetLeaveRequest(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, workflowdomain.ErrRequestNotFound)
		return
	}

	lr, err := s.workflowSvc.GetByID(c.Request.Context(), p.ID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lr)
}

func (s *Server) ApproveLeaveRequest(c *gin.Context) {
	s.reviewLeaveRequest(c, workflowdomain.StatusApproved)
}

func (s *Server) RejectLeaveRequest(c *gin.Context) {
	s.reviewLeaveRequest(c, workflowdomain.StatusRejected)
}

func (s *Server) reviewLeaveRequest(c *gin.Context, to workflowdomain.Status) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, workflowdomain.ErrRequestNotFound)
		return
	}

	var req ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	var lr *workflowdomain.LeaveRequest
	if to == workflowdomain.StatusApproved {
		lr, err = s.workflowSvc.Approve(c.Request.Context(), p.ID, id, req.Comment)
	} else {
		lr, err = s.workflowSvc.Reject(c.Request.Context(), p.ID, id, req.Comment)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lr)
}

func (s *Server) CancelLeaveRequest(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, workflowdomain.ErrRequestNotFound)
		return
	}

	lr, err := s.workflowSvc.Cancel(c.Request.Context(), p.ID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lr)
}
