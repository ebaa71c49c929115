package workweek

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-schedule/internal/domain"
	workweekerrors "go-schedule/internal/workweek/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	monthCacheKeyPrefix = "workweek:month:"
	monthCacheTTL       = 10 * time.Minute
)

func monthCacheKey(employeeID string, year int, month time.Month) string {
	return fmt.Sprintf("%s%s:%d-%02d", monthCacheKeyPrefix, employeeID, year, int(month))
}

//go:generate mockgen -source=workweek_service.go -destination=mock/workweek_service_mock.go -package=mock
type Service interface {
	RecalculateWeek(ctx context.Context, employeeID, date string) (WeeklySummaryResponse, error)
	RecalculateAll(ctx context.Context, employeeID string) ([]WeeklySummaryResponse, error)
	GetForMonth(ctx context.Context, employeeID string, year, month int) ([]WeeklySummaryResponse, error)
	GetDailyHours(ctx context.Context, employeeID, from, to string) ([]DailyHoursResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("workweek.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workweek.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// RecalculateWeek recomputes and upserts the summary of the week containing
// the given date. It is invoked after every event mutation, directly or
// through the recalculation consumer.
func (s *service) RecalculateWeek(ctx context.Context, employeeID, date string) (WeeklySummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return WeeklySummaryResponse{}, workweekerrors.ErrInvalidEmployeeID
	}
	day, err := parseDate(date)
	if err != nil {
		return WeeklySummaryResponse{}, err
	}

	weekStart := domain.WeekStart(day)
	weekEnd := domain.WeekEnd(day)

	s.logger.Debug("recalculate week requested",
		zap.String("employee_id", employeeID),
		zap.String("week_start", weekStart.Format("2006-01-02")),
	)

	employee, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return WeeklySummaryResponse{}, err
	}

	events, err := s.repo.EventsInRange(ctx, employeeID, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("recalculate week load events failed", zap.Error(err))
		return WeeklySummaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WeeklySummaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	summary := buildSummary(*employee, weekStart, Aggregate(events, *employee))
	if err := qtx.Upsert(ctx, summary); err != nil {
		s.logger.Error("recalculate week upsert failed", zap.Error(err))
		return WeeklySummaryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return WeeklySummaryResponse{}, err
	}

	s.invalidateMonths(ctx, employeeID, weekStart, weekEnd)
	s.logger.Info("weekly summary recalculated",
		zap.String("employee_id", employeeID),
		zap.String("week_start", weekStart.Format("2006-01-02")),
		zap.String("work_hours", summary.WorkHours.StringFixed(2)),
		zap.String("break_hours", summary.BreakHours.StringFixed(2)),
	)

	return mapToResponse(*summary), nil
}

// RecalculateAll regroups the employee's entire history by week and rebuilds
// every summary from scratch. Used for backfill and repair.
func (s *service) RecalculateAll(ctx context.Context, employeeID string) ([]WeeklySummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, workweekerrors.ErrInvalidEmployeeID
	}

	employee, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.AllEvents(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	byWeek := GroupByWeek(events)
	s.logger.Info("recalculating all weekly summaries",
		zap.String("employee_id", employeeID),
		zap.Int("events", len(events)),
		zap.Int("weeks", len(byWeek)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	responses := make([]WeeklySummaryResponse, 0, len(byWeek))
	for weekStart, weekEvents := range byWeek {
		summary := buildSummary(*employee, weekStart, Aggregate(weekEvents, *employee))
		if err := qtx.Upsert(ctx, summary); err != nil {
			s.logger.Error("recalculate all upsert failed",
				zap.String("week_start", weekStart.Format("2006-01-02")),
				zap.Error(err),
			)
			return nil, err
		}
		responses = append(responses, mapToResponse(*summary))
		s.invalidateMonths(ctx, employeeID, weekStart, weekStart.AddDate(0, 0, 6))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return responses, nil
}

// GetForMonth returns one entry per week touching the month. Weeks without a
// stored summary come back zeroed. The month view is served through a redis
// read-through cache with singleflight suppressing rebuild stampedes.
func (s *service) GetForMonth(ctx context.Context, employeeID string, year, month int) ([]WeeklySummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, workweekerrors.ErrInvalidEmployeeID
	}

	key := monthCacheKey(employeeID, year, time.Month(month))
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp []WeeklySummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		resp, err := s.loadMonth(ctx, employeeID, year, month)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = s.rdb.Set(ctx, key, payload, monthCacheTTL).Err()
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]WeeklySummaryResponse), nil
}

func (s *service) loadMonth(ctx context.Context, employeeID string, year, month int) ([]WeeklySummaryResponse, error) {
	employee, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	weeks := domain.WeeksForMonth(year, time.Month(month))
	resp := make([]WeeklySummaryResponse, 0, len(weeks))
	for _, weekStart := range weeks {
		summary, err := s.repo.FindByEmployeeAndWeek(ctx, employeeID, weekStart)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp = append(resp, emptyWeekResponse(employee.ID, weekStart))
				continue
			}
			return nil, err
		}
		resp = append(resp, mapToResponse(*summary))
	}
	return resp, nil
}

// GetDailyHours renders one entry per calendar day in [from, to]: the work
// shift, the leave tag, or a day off when nothing is scheduled.
func (s *service) GetDailyHours(ctx context.Context, employeeID, from, to string) ([]DailyHoursResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, workweekerrors.ErrInvalidEmployeeID
	}
	fromDate, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	toDate, err := parseDate(to)
	if err != nil {
		return nil, err
	}
	if fromDate.After(toDate) {
		return nil, workweekerrors.ErrInvalidDateRange
	}

	if _, err := s.getEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	events, err := s.repo.EventsInRange(ctx, employeeID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	// One event per date; a work shift wins over a leave entry on the same day.
	byDate := make(map[time.Time]domain.Event, len(events))
	for _, ev := range events {
		day, ok := ev.Day()
		if !ok {
			continue
		}
		if existing, found := byDate[day]; found && existing.IsWorkShift() {
			continue
		}
		byDate[day] = ev
	}

	var days []DailyHoursResponse
	for day := fromDate; !day.After(toDate); day = day.AddDate(0, 0, 1) {
		ev, found := byDate[day]
		switch {
		case !found:
			days = append(days, DailyHoursResponse{
				Date:   day.Format("2006-01-02"),
				Status: DayStatusOff,
			})
		case ev.IsWorkShift():
			days = append(days, DailyHoursResponse{
				Date:      day.Format("2006-01-02"),
				Status:    DayStatusWork,
				StartTime: ev.Start.Format("15:04"),
				EndTime:   ev.End.Format("15:04"),
				Activity:  ev.Activity,
			})
		default:
			days = append(days, DailyHoursResponse{
				Date:      day.Format("2006-01-02"),
				Status:    DayStatusLeave,
				LeaveType: ev.LeaveType,
			})
		}
	}
	return days, nil
}

func (s *service) getEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workweekerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

// invalidateMonths drops the cached month views the given week overlaps. A
// week can straddle two months.
func (s *service) invalidateMonths(ctx context.Context, employeeID string, weekStart, weekEnd time.Time) {
	if s.rdb == nil {
		return
	}
	keys := []string{monthCacheKey(employeeID, weekStart.Year(), weekStart.Month())}
	if weekEnd.Month() != weekStart.Month() {
		keys = append(keys, monthCacheKey(employeeID, weekEnd.Year(), weekEnd.Month()))
	}
	_ = s.rdb.Del(ctx, keys...).Err()
}

func buildSummary(employee domain.Employee, weekStart time.Time, hours WeeklyHours) *WeeklySummary {
	_, weekNumber := weekStart.ISOWeek()
	return &WeeklySummary{
		ID:         uuid.New(),
		EmployeeID: employee.ID,
		WeekStart:  weekStart,
		WeekNumber: weekNumber,
		Year:       weekStart.Year(),
		WorkHours:  hours.WorkHours,
		BreakHours: hours.BreakHours,
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, workweekerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(s WeeklySummary) WeeklySummaryResponse {
	return WeeklySummaryResponse{
		ID:         s.ID.String(),
		EmployeeID: s.EmployeeID.String(),
		WeekStart:  s.WeekStart.Format("2006-01-02"),
		WeekNumber: s.WeekNumber,
		Year:       s.Year,
		WorkHours:  s.WorkHours.StringFixed(2),
		BreakHours: s.BreakHours.StringFixed(2),
	}
}

func emptyWeekResponse(employeeID uuid.UUID, weekStart time.Time) WeeklySummaryResponse {
	_, weekNumber := weekStart.ISOWeek()
	return WeeklySummaryResponse{
		EmployeeID: employeeID.String(),
		WeekStart:  weekStart.Format("2006-01-02"),
		WeekNumber: weekNumber,
		Year:       weekStart.Year(),
		WorkHours:  decimal.Zero.StringFixed(2),
		BreakHours: decimal.Zero.StringFixed(2),
	}
}
