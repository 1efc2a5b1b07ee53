package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/clock"
	"github.com/leavesync/leavesync/internal/holiday/domain"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	workflowdomain "github.com/leavesync/leavesync/internal/workflow/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const suggestionLookaheadDays = 90

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	principals principaldomain.Repository
	requests   workflowdomain.Repository
	clock      clock.Clock
	genID      *snowflake.Node
}

func NewService(
	conn *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	principals principaldomain.Repository,
	requests workflowdomain.Repository,
	clk clock.Clock,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:         conn,
		log:        log.Named("holiday.service"),
		repo:       repo,
		principals: principals,
		requests:   requests,
		clock:      clk,
		genID:      genID,
	}
}

func (s *service) AddHoliday(ctx context.Context, actorID snowflake.ID, in domain.HolidayInput) (*domain.Holiday, error) {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || in.Date.IsZero() {
		return nil, domain.ErrInvalidHoliday
	}

	h := domain.Holiday{
		ID:         s.genID.Generate(),
		TenantID:   actor.TenantID,
		Date:       dateOnly(in.Date),
		Name:       strings.TrimSpace(in.Name),
		IsOptional: in.IsOptional,
		Recurring:  in.Recurring,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.CreateHoliday(ctx, h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *service) ImportHolidays(ctx context.Context, actorID snowflake.ID, r io.Reader) (int, error) {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return 0, err
	}

	rows, err := parseHolidayRows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, domain.ErrNothingImported
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range rows {
			h := domain.Holiday{
				ID:        s.genID.Generate(),
				TenantID:  actor.TenantID,
				Date:      row.Date,
				Name:      row.Name,
				CreatedAt: now,
			}
			if err := repo.CreateHoliday(ctx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("holidays imported",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.Int("count", len(rows)),
	)
	return len(rows), nil
}

func (s *service) ListHolidays(ctx context.Context, principalID snowflake.ID, year int) ([]domain.Holiday, error) {
	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return nil, err
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return s.holidaysIn(ctx, p.TenantID, from, to)
}

// holidaysIn returns holidays in [from, to], with recurring holidays
// projected into the years the range covers.
func (s *service) holidaysIn(ctx context.Context, tenantID snowflake.ID, from, to time.Time) ([]domain.Holiday, error) {
	holidays, err := s.repo.ListHolidaysInRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, h := range holidays {
		seen[h.Date.Format("2006-01-02")+"/"+h.Name] = true
	}

	recurring, err := s.repo.ListRecurring(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, h := range recurring {
		for year := from.Year(); year <= to.Year(); year++ {
			occ := h.OccursIn(year)
			if occ.Before(from) || occ.After(to) {
				continue
			}
			key := occ.Format("2006-01-02") + "/" + h.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			projected := h
			projected.Date = occ
			holidays = append(holidays, projected)
		}
	}

	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays, nil
}

func (s *service) SetWorkWeek(ctx context.Context, actorID snowflake.ID, workingDays []int) (*domain.WorkWeek, error) {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(workingDays) == 0 || len(workingDays) > 7 {
		return nil, domain.ErrInvalidWorkWeek
	}
	seen := map[int]bool{}
	days := make([]int, 0, len(workingDays))
	for _, d := range workingDays {
		if d < 1 || d > 7 {
			return nil, domain.ErrInvalidWorkWeek
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Ints(days)

	now := s.clock.Now()
	return s.repo.UpsertWorkWeek(ctx, domain.WorkWeek{
		ID:          s.genID.Generate(),
		TenantID:    actor.TenantID,
		WorkingDays: datatypes.NewJSONSlice(days),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *service) GetWorkWeek(ctx context.Context, tenantID snowflake.ID) (*domain.WorkWeek, error) {
	w, err := s.repo.GetWorkWeek(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return &domain.WorkWeek{
			TenantID:    tenantID,
			WorkingDays: datatypes.NewJSONSlice(domain.DefaultWorkingDays),
		}, nil
	}
	return w, nil
}

func (s *service) Calendar(ctx context.Context, principalID snowflake.ID, year int, month time.Month) ([]domain.CalendarDay, error) {
	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	facts, err := s.buildFacts(ctx, p, from, to)
	if err != nil {
		return nil, err
	}

	days := make([]domain.CalendarDay, 0, to.Day())
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, classify(d, facts))
	}
	return days, nil
}

func (s *service) Suggestions(ctx context.Context, principalID snowflake.ID) ([]domain.Suggestion, error) {
	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return nil, err
	}

	from := dateOnly(s.clock.Now()).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, suggestionLookaheadDays-1)

	facts, err := s.buildFacts(ctx, p, from, to)
	if err != nil {
		return nil, err
	}

	days := make([]domain.CalendarDay, 0, suggestionLookaheadDays)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, classify(d, facts))
	}

	var out []domain.Suggestion
	for _, d := range bridgeDays(days) {
		out = append(out, domain.Suggestion{Date: d, Reason: bridgeReason})
	}
	return out, nil
}

func (s *service) buildFacts(ctx context.Context, p *principaldomain.Principal, from, to time.Time) (dayFacts, error) {
	facts := dayFacts{
		workingDays: map[int]bool{},
		holidays:    map[time.Time]string{},
		leaveDays:   map[time.Time]bool{},
	}

	w, err := s.GetWorkWeek(ctx, p.TenantID)
	if err != nil {
		return facts, err
	}
	for _, d := range w.WorkingDays {
		facts.workingDays[d] = true
	}

	holidays, err := s.holidaysIn(ctx, p.TenantID, from, to)
	if err != nil {
		return facts, err
	}
	for _, h := range holidays {
		if h.IsOptional {
			continue
		}
		facts.holidays[dateOnly(h.Date)] = h.Name
	}

	requests, err := s.requests.ListByPrincipal(ctx, p.ID)
	if err != nil {
		return facts, err
	}
	for _, lr := range requests {
		if lr.Status != workflowdomain.StatusPending && lr.Status != workflowdomain.StatusApproved {
			continue
		}
		for d := dateOnly(lr.StartDate); !d.After(dateOnly(lr.EndDate)); d = d.AddDate(0, 0, 1) {
			if d.Before(from) || d.After(to) {
				continue
			}
			facts.leaveDays[d] = true
		}
	}
	return facts, nil
}

func (s *service) requireAdmin(ctx context.Context, actorID snowflake.ID) (*principaldomain.Principal, error) {
	actor, err := s.principals.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanAdministerRoles() {
		return nil, principaldomain.ErrForbidden
	}
	return actor, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
