package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
)

type listAuditLogsQuery struct {
	Action string `form:"action"`
	Limit  int    `form:"limit"`
	Cursor string `form:"cursor"`
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	q := auditdomain.ListQuery{
		Action: query.Action,
		Limit:  query.Limit,
	}
	if query.Cursor != "" {
		cursor, err := snowflake.ParseString(query.Cursor)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		q.Cursor = cursor
	}

	entries, err := s.auditSvc.List(c.Request.Context(), p.ID, q)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": entries})
}
