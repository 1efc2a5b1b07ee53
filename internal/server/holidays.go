package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	holidaydomain "github.com/leavesync/leavesync/internal/holiday/domain"
)

type AddHolidayRequest struct {
	Date       string `json:"date" binding:"required"`
	Name       string `json:"name" binding:"required"`
	IsOptional bool   `json:"is_optional"`
	Recurring  bool   `json:"recurring"`
}

type SetWorkWeekRequest struct {
	WorkingDays []int `json:"working_days" binding:"required"`
}

func (s *Server) ListHolidays(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		year = parsed
	}

	holidays, err := s.holidaySvc.ListHolidays(c.Request.Context(), p.ID, year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}

func (s *Server) AddHoliday(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req AddHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		AbortWithError(c, holidaydomain.ErrInvalidHoliday)
		return
	}

	h, err := s.holidaySvc.AddHoliday(c.Request.Context(), p.ID, holidaydomain.HolidayInput{
		Date:       date,
		Name:       req.Name,
		IsOptional: req.IsOptional,
		Recurring:  req.Recurring,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

func (s *Server) ImportHolidays(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	count, err := s.holidaySvc.ImportHolidays(c.Request.Context(), p.ID, c.Request.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": count})
}

func (s *Server) GetWorkWeek(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	w, err := s.holidaySvc.GetWorkWeek(c.Request.Context(), p.TenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *Server) SetWorkWeek(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req SetWorkWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	w, err := s.holidaySvc.SetWorkWeek(c.Request.Context(), p.ID, req.WorkingDays)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *Server) Calendar(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		month = parsed
	}

	days, err := s.holidaySvc.Calendar(c.Request.Context(), p.ID, year, time.Month(month))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (s *Server) ListSuggestions(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	suggestions, err := s.holidaySvc.Suggestions(c.Request.Context(), p.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
