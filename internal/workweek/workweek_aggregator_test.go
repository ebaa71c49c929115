package workweek

import (
	"testing"
	"time"

	"go-schedule/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func tp(t time.Time) *time.Time { return &t }

func workShift(day time.Time, fromHour, toHour float64) domain.Event {
	start := day.Add(time.Duration(fromHour * float64(time.Hour)))
	end := day.Add(time.Duration(toHour * float64(time.Hour)))
	return domain.Event{ID: uuid.New(), Start: tp(start), End: tp(end)}
}

func leaveOn(day time.Time, leaveType string) domain.Event {
	midnight := day
	return domain.Event{ID: uuid.New(), Start: tp(midnight), End: tp(midnight), LeaveType: leaveType}
}

func contract(hours int) domain.Employee {
	return domain.Employee{ID: uuid.New(), ContractDailyHours: &hours}
}

func TestAggregate_ShiftAboveBreakThreshold(t *testing.T) {
	// A 7h shift loses the fixed 0.5h break.
	totals := Aggregate([]domain.Event{workShift(monday, 9, 16)}, contract(8))

	assert.Equal(t, "6.5", totals.WorkHours.String())
	assert.Equal(t, "0.5", totals.BreakHours.String())
}

func TestAggregate_ShiftAtBreakThreshold(t *testing.T) {
	// Exactly 6h keeps its full credit; the deduction is strict-greater.
	totals := Aggregate([]domain.Event{workShift(monday, 9, 15)}, contract(8))

	assert.Equal(t, "6", totals.WorkHours.String())
	assert.True(t, totals.BreakHours.IsZero())
}

func TestAggregate_RoundingBeforeThreshold(t *testing.T) {
	// 361 minutes is 6.0166...h, which rounds to 6.02 before the threshold
	// comparison, so the break applies.
	start := monday.Add(9 * time.Hour)
	end := start.Add(361 * time.Minute)
	ev := domain.Event{ID: uuid.New(), Start: tp(start), End: tp(end)}

	totals := Aggregate([]domain.Event{ev}, contract(8))

	assert.Equal(t, "5.52", totals.WorkHours.String())
	assert.Equal(t, "0.5", totals.BreakHours.String())
}

func TestAggregate_PaidLeaveCreditsContractHours(t *testing.T) {
	events := []domain.Event{
		workShift(monday, 9, 16),                       // 6.5h after break
		leaveOn(monday.AddDate(0, 0, 1), "Paid leave"), // 8h credit
	}

	totals := Aggregate(events, contract(8))

	assert.Equal(t, "14.5", totals.WorkHours.String())
	assert.Equal(t, "0.5", totals.BreakHours.String())
}

func TestAggregate_PaidLeaveSameDayDedup(t *testing.T) {
	day := monday.AddDate(0, 0, 2)
	events := []domain.Event{
		leaveOn(day, "Paid leave"),
		leaveOn(day, "Sick leave"),
	}

	totals := Aggregate(events, contract(8))

	assert.Equal(t, "8", totals.WorkHours.String())
}

func TestAggregate_PaidLeaveUsesContractTier(t *testing.T) {
	events := []domain.Event{leaveOn(monday, "Maternity leave")}

	assert.Equal(t, "4", Aggregate(events, contract(4)).WorkHours.String())
	assert.Equal(t, "6", Aggregate(events, contract(6)).WorkHours.String())
	assert.Equal(t, "8", Aggregate(events, domain.Employee{}).WorkHours.String())
}

func TestAggregate_UnpaidLeaveContributesNothing(t *testing.T) {
	events := []domain.Event{
		leaveOn(monday, "Day off"),
		leaveOn(monday.AddDate(0, 0, 1), "Unpaid leave"),
		leaveOn(monday.AddDate(0, 0, 2), "Unknown tag"),
	}

	totals := Aggregate(events, contract(8))

	assert.True(t, totals.WorkHours.IsZero())
	assert.True(t, totals.BreakHours.IsZero())
}

func TestAggregate_UndatedPaidLeaveSkipped(t *testing.T) {
	events := []domain.Event{{ID: uuid.New(), LeaveType: "Paid leave"}}

	totals := Aggregate(events, contract(8))

	assert.True(t, totals.WorkHours.IsZero())
}

func TestAggregate_Idempotent(t *testing.T) {
	events := []domain.Event{
		workShift(monday, 8, 17),
		workShift(monday.AddDate(0, 0, 1), 8, 12),
		leaveOn(monday.AddDate(0, 0, 2), "Sick leave"),
	}

	first := Aggregate(events, contract(8))
	second := Aggregate(events, contract(8))

	assert.True(t, first.WorkHours.Equal(second.WorkHours))
	assert.True(t, first.BreakHours.Equal(second.BreakHours))
}

func TestAggregate_MixedWeek(t *testing.T) {
	events := []domain.Event{
		workShift(monday, 9, 17),                         // 8h -> 7.5 + 0.5 break
		workShift(monday.AddDate(0, 0, 1), 9, 13),        // 4h, no break
		leaveOn(monday.AddDate(0, 0, 2), "Paid leave"),   // 8h credit
		leaveOn(monday.AddDate(0, 0, 3), "Day off"),      // nothing
		leaveOn(monday.AddDate(0, 0, 4), "Unpaid leave"), // nothing
	}

	totals := Aggregate(events, contract(8))

	assert.Equal(t, "19.5", totals.WorkHours.String())
	assert.Equal(t, "0.5", totals.BreakHours.String())
}

func TestGroupByWeek(t *testing.T) {
	nextMonday := monday.AddDate(0, 0, 7)
	events := []domain.Event{
		workShift(monday, 9, 17),
		workShift(monday.AddDate(0, 0, 6), 9, 17), // Sunday, same week
		workShift(nextMonday, 9, 17),
		{ID: uuid.New(), LeaveType: "Paid leave"}, // undated, dropped
	}

	byWeek := GroupByWeek(events)

	assert.Len(t, byWeek, 2)
	assert.Len(t, byWeek[monday], 2)
	assert.Len(t, byWeek[nextMonday], 1)
}
