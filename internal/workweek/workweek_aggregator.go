package workweek

import (
	"time"

	"go-schedule/internal/domain"

	"github.com/shopspring/decimal"
)

// Shifts longer than breakThresholdHours have a fixed unpaid break deducted.
var (
	breakThresholdHours = decimal.NewFromInt(6)
	fixedBreakHours     = decimal.NewFromFloat(0.5)
	sixty               = decimal.NewFromInt(60)
)

// WeeklyHours is the aggregation output for one Monday-anchored week:
// credited work hours (including paid-leave credit) and unpaid break hours.
type WeeklyHours struct {
	WorkHours  decimal.Decimal
	BreakHours decimal.Decimal
}

// Aggregate computes the weekly totals for one ISO week's events. It is a pure
// function of its inputs: unpaid leave contributes nothing, work shifts
// contribute their rounded duration minus a 0.5h break when longer than six
// hours, and each distinct paid-leave day credits the employee's daily
// contract hours exactly once.
func Aggregate(weekEvents []domain.Event, employee domain.Employee) WeeklyHours {
	var work, paidLeave []domain.Event
	for _, ev := range weekEvents {
		switch domain.Classify(ev) {
		case domain.KindWork:
			work = append(work, ev)
		case domain.KindPaidLeave:
			paidLeave = append(paidLeave, ev)
		}
	}

	totals := shiftHours(work)
	totals.WorkHours = totals.WorkHours.Add(paidLeaveCredit(paidLeave, employee))
	return totals
}

// shiftHours sums work-shift durations with the break deduction. Durations
// round to two decimal places, half up, before the six-hour comparison.
func shiftHours(events []domain.Event) WeeklyHours {
	workHours := decimal.Zero
	breakHours := decimal.Zero

	for _, ev := range events {
		shift := decimal.NewFromInt(ev.DurationMinutes()).DivRound(sixty, 2)

		if shift.GreaterThan(breakThresholdHours) {
			workHours = workHours.Add(shift.Sub(fixedBreakHours))
			breakHours = breakHours.Add(fixedBreakHours)
		} else {
			workHours = workHours.Add(shift)
		}
	}

	return WeeklyHours{WorkHours: workHours, BreakHours: breakHours}
}

// paidLeaveCredit credits one daily contract's worth of hours per distinct
// paid-leave day. Several leave entries on the same day still count once, and
// paid leave never contributes break hours. Leave entries without a date
// cannot be assigned to a day and are skipped.
func paidLeaveCredit(events []domain.Event, employee domain.Employee) decimal.Decimal {
	days := make(map[time.Time]struct{}, len(events))
	for _, ev := range events {
		if day, ok := ev.Day(); ok {
			days[day] = struct{}{}
		}
	}

	daily := decimal.NewFromInt(int64(employee.DailyContractHours()))
	return daily.Mul(decimal.NewFromInt(int64(len(days))))
}

// GroupByWeek buckets events by the Monday of the week their start date falls
// in. Events without a start timestamp are dropped; they cannot be assigned
// to any week.
func GroupByWeek(events []domain.Event) map[time.Time][]domain.Event {
	byWeek := make(map[time.Time][]domain.Event)
	for _, ev := range events {
		if ev.Start == nil {
			continue
		}
		weekStart := domain.WeekStart(*ev.Start)
		byWeek[weekStart] = append(byWeek[weekStart], ev)
	}
	return byWeek
}
