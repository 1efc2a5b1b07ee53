package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	balancedomain "github.com/leavesync/leavesync/internal/balance/domain"
	designationdomain "github.com/leavesync/leavesync/internal/designation/domain"
	holidaydomain "github.com/leavesync/leavesync/internal/holiday/domain"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	signupdomain "github.com/leavesync/leavesync/internal/signup/domain"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
	workflowdomain "github.com/leavesync/leavesync/internal/workflow/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, payloadFor(err, "invalid request")

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}

	case isForbiddenError(err):
		return http.StatusForbidden, payloadFor(err, "forbidden")

	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found"}

	case isConflictError(err):
		return http.StatusConflict, payloadFor(err, "conflict")

	case errors.Is(err, balancedomain.ErrInsufficientBalance),
		errors.Is(err, balancedomain.ErrUnknownLeaveType):
		return http.StatusUnprocessableEntity, payloadFor(err, "unprocessable")

	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func payloadFor(err error, message string) errorPayload {
	return errorPayload{Type: err.Error(), Message: message}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, signupdomain.ErrInvalidRequest),
		errors.Is(err, tenantdomain.ErrInvalidDomain),
		errors.Is(err, principaldomain.ErrDomainMismatch),
		errors.Is(err, principaldomain.ErrInvalidRole),
		errors.Is(err, workflowdomain.ErrInvalidRange),
		errors.Is(err, holidaydomain.ErrInvalidHoliday),
		errors.Is(err, holidaydomain.ErrInvalidWorkWeek),
		errors.Is(err, holidaydomain.ErrNothingImported):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, principaldomain.ErrForbidden),
		errors.Is(err, principaldomain.ErrCrossTenant),
		errors.Is(err, principaldomain.ErrSelfEscalation),
		errors.Is(err, designationdomain.ErrSelfDesignation),
		errors.Is(err, workflowdomain.ErrSelfApproval):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tenantdomain.ErrTenantNotFound),
		errors.Is(err, principaldomain.ErrPrincipalNotFound),
		errors.Is(err, designationdomain.ErrDesignationNotFound),
		errors.Is(err, balancedomain.ErrBalanceNotFound),
		errors.Is(err, workflowdomain.ErrRequestNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, principaldomain.ErrAlreadyRegistered),
		errors.Is(err, workflowdomain.ErrAlreadyFinalized),
		errors.Is(err, workflowdomain.ErrConcurrentModification):
		return true
	default:
		return false
	}
}

// classifyErrorForLog labels request errors for the access log.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", payload.Type
	case status >= http.StatusBadRequest:
		return "client", payload.Type
	default:
		return "", ""
	}
}
