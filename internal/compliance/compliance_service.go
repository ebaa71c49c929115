package compliance

import (
	"fmt"

	"go-schedule/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Validator checks a candidate shift against an employee's existing events.
// It is a pure computation over the inputs: it never touches storage and
// keeps no state between calls.
type Validator interface {
	Validate(candidate domain.Event, employee *domain.Employee, history []domain.Event, isUpdate bool) Result
}

type validator struct {
	rules  Rules
	logger *zap.Logger
}

func NewValidator(rules Rules, logger ...*zap.Logger) Validator {
	l := zap.L().Named("compliance.validator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compliance.validator")
	}
	return &validator{rules: rules, logger: l}
}

// Validate runs the four working-time rules. Leave requests are never
// hour-validated. Rule failures accumulate; the rules are independent and a
// fault in one converts to a message for that rule only.
func (v *validator) Validate(candidate domain.Event, employee *domain.Employee, history []domain.Event, isUpdate bool) Result {
	if employee == nil {
		return failure("employee is required")
	}

	// Leave requests skip every hour rule.
	if domain.Classify(candidate) != domain.KindWork {
		if candidate.LeaveType != "" {
			return success()
		}
		return failure("start and end time are required for work shifts")
	}
	if !candidate.End.After(*candidate.Start) {
		return failure("shift end must be after shift start")
	}

	existing := v.prepareHistory(candidate, history, isUpdate)

	v.logger.Debug("validating shift",
		zap.String("employee_id", employee.ID.String()),
		zap.Bool("is_update", isUpdate),
		zap.Int("existing_shifts", len(existing)),
	)

	var result Result
	for _, rule := range []struct {
		name string
		fn   func() string
	}{
		{"daily hours", func() string { return v.checkDailyHours(candidate, existing) }},
		{"rest period", func() string { return v.checkRestPeriod(candidate, existing) }},
		{"weekly hours", func() string { return v.checkWeeklyHours(candidate, *employee, existing) }},
		{"consecutive days", func() string { return v.checkConsecutiveDays(candidate, existing) }},
	} {
		if msg := runRule(rule.name, rule.fn); msg != "" {
			result.Errors = append(result.Errors, msg)
		}
	}

	if !result.Valid() {
		v.logger.Debug("shift validation failed",
			zap.String("employee_id", employee.ID.String()),
			zap.Strings("violations", result.Errors),
		)
	}
	return result
}

// runRule isolates rule evaluation so one faulting rule cannot prevent the
// remaining rules from reporting.
func runRule(name string, fn func() string) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%s check failed: %v", name, r)
		}
	}()
	return fn()
}

// prepareHistory keeps only valid work shifts from the history. For updates
// the stored copy of the candidate is excluded by id; a candidate without an
// identity is treated as a new event.
func (v *validator) prepareHistory(candidate domain.Event, history []domain.Event, isUpdate bool) []domain.Event {
	existing := make([]domain.Event, 0, len(history))
	for _, ev := range history {
		if !ev.IsWorkShift() {
			continue
		}
		if isUpdate && candidate.ID != uuid.Nil && ev.ID == candidate.ID {
			continue
		}
		existing = append(existing, ev)
	}
	return existing
}

func (v *validator) checkDailyHours(candidate domain.Event, existing []domain.Event) string {
	candidateDay, _ := candidate.Day()

	totalMinutes := candidate.DurationMinutes()
	for _, ev := range existing {
		if day, ok := ev.Day(); ok && day.Equal(candidateDay) {
			totalMinutes += ev.DurationMinutes()
		}
	}

	totalHours := float64(totalMinutes) / 60
	if totalHours > v.rules.MaxDailyHours {
		return fmt.Sprintf("daily work limit exceeded: total %.1fh (max %.0fh)",
			totalHours, v.rules.MaxDailyHours)
	}
	return ""
}

func (v *validator) checkRestPeriod(candidate domain.Event, existing []domain.Event) string {
	for _, ev := range existing {
		// Gap after the existing shift ends. A negative gap means the
		// candidate is not on that side of the shift.
		if gap := candidate.Start.Sub(*ev.End).Hours(); gap >= 0 && gap < v.rules.MinRestHours {
			return fmt.Sprintf("insufficient rest period: only %.1fh after previous shift (min %.0fh)",
				gap, v.rules.MinRestHours)
		}
		// Gap before the existing shift starts.
		if gap := ev.Start.Sub(*candidate.End).Hours(); gap >= 0 && gap < v.rules.MinRestHours {
			return fmt.Sprintf("insufficient rest period: only %.1fh before next shift (min %.0fh)",
				gap, v.rules.MinRestHours)
		}
	}
	return ""
}

func (v *validator) checkWeeklyHours(candidate domain.Event, employee domain.Employee, existing []domain.Event) string {
	contractHours := employee.DailyContractHours()
	ceiling := v.rules.MaxWeeklyHours(contractHours)

	weekStart := domain.WeekStart(*candidate.Start)

	totalMinutes := candidate.DurationMinutes()
	for _, ev := range existing {
		if day, ok := ev.Day(); ok && domain.InWeek(day, weekStart) {
			totalMinutes += ev.DurationMinutes()
		}
	}

	totalHours := float64(totalMinutes) / 60
	if totalHours > float64(ceiling) {
		return fmt.Sprintf("weekly work limit exceeded for %d-hour contract: total %.1fh (max %dh)",
			contractHours, totalHours, ceiling)
	}
	return ""
}

func (v *validator) checkConsecutiveDays(candidate domain.Event, existing []domain.Event) string {
	candidateDay, _ := candidate.Day()

	days := workDaySet(existing, candidateDay)
	run := longestRun(days, candidateDay, v.rules.ConsecutiveWindowDays)

	if run > v.rules.MaxConsecutiveDays {
		return fmt.Sprintf("consecutive work days limit exceeded: %d days (max %d)",
			run, v.rules.MaxConsecutiveDays)
	}
	return ""
}
