package compliance

import (
	"fmt"
	"testing"
	"time"

	"go-schedule/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func tp(t time.Time) *time.Time { return &t }

func shiftOn(day time.Time, fromHour, toHour int) domain.Event {
	start := day.Add(time.Duration(fromHour) * time.Hour)
	end := day.Add(time.Duration(toHour) * time.Hour)
	return domain.Event{
		ID:    uuid.New(),
		Start: tp(start),
		End:   tp(end),
	}
}

func testEmployee(contractHours int) *domain.Employee {
	e := &domain.Employee{ID: uuid.New()}
	if contractHours > 0 {
		e.ContractDailyHours = &contractHours
	}
	return e
}

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func TestValidate_ValidShift(t *testing.T) {
	v := NewValidator(DefaultRules())

	result := v.Validate(shiftOn(monday, 9, 17), testEmployee(8), nil, false)

	assert.True(t, result.Valid())
	assert.Empty(t, result.Errors)
}

func TestValidate_NilEmployee(t *testing.T) {
	v := NewValidator(DefaultRules())

	result := v.Validate(shiftOn(monday, 9, 17), nil, nil, false)

	assert.False(t, result.Valid())
	assert.Equal(t, "employee is required", result.First())
}

func TestValidate_MissingTimestamps(t *testing.T) {
	v := NewValidator(DefaultRules())

	result := v.Validate(domain.Event{}, testEmployee(8), nil, false)

	assert.False(t, result.Valid())
	assert.Equal(t, "start and end time are required for work shifts", result.First())
}

func TestValidate_EndNotAfterStart(t *testing.T) {
	v := NewValidator(DefaultRules())
	start := monday.Add(9 * time.Hour)

	result := v.Validate(domain.Event{Start: tp(start), End: tp(start)}, testEmployee(8), nil, false)

	assert.False(t, result.Valid())
	assert.Equal(t, "shift end must be after shift start", result.First())
}

func TestValidate_LeaveSkipsHourRules(t *testing.T) {
	v := NewValidator(DefaultRules())

	// History that would fail every rule for a work shift.
	history := []domain.Event{shiftOn(monday, 0, 12)}

	for _, leaveType := range []string{"Paid leave", "Sick leave", "Day off", "Unknown tag"} {
		result := v.Validate(domain.Event{LeaveType: leaveType}, testEmployee(8), history, false)
		assert.True(t, result.Valid(), leaveType)
	}
}

func TestValidate_DailyLimit(t *testing.T) {
	v := NewValidator(DefaultRules())

	// 7h existing + 6h candidate = 13h on the day.
	history := []domain.Event{shiftOn(monday, 0, 7)}
	candidate := shiftOn(monday, 17, 23)

	result := v.Validate(candidate, testEmployee(8), history, false)
	assert.False(t, result.Valid())
	assert.Contains(t, result.First(), "daily work limit exceeded")
	assert.Contains(t, result.First(), "13.0h")

	// 4h existing + 7h candidate = 11h passes the daily cap, but the 10h gap
	// between the shifts fails the rest rule, so use a wider spread.
	ok := v.Validate(shiftOn(monday, 16, 23), testEmployee(8), []domain.Event{shiftOn(monday, 0, 4)}, false)
	assert.True(t, ok.Valid())
}

func TestValidate_ExactlyAtDailyLimit(t *testing.T) {
	v := NewValidator(DefaultRules())

	// Exactly 12h on one day is allowed; the cap is strict-greater.
	result := v.Validate(shiftOn(monday, 6, 18), testEmployee(8), nil, false)
	assert.True(t, result.Valid())
}

func TestValidate_RestPeriod(t *testing.T) {
	v := NewValidator(DefaultRules())
	tuesday := monday.AddDate(0, 0, 1)

	// Previous shift ends Monday 22:00; candidate starts Tuesday 06:00.
	// Only 8h of rest.
	history := []domain.Event{shiftOn(monday, 14, 22)}
	result := v.Validate(shiftOn(tuesday, 6, 14), testEmployee(8), history, false)

	assert.False(t, result.Valid())
	assert.Contains(t, result.First(), "insufficient rest period")
	assert.Contains(t, result.First(), "8.0h after previous shift")

	// Exactly 12h of rest passes.
	result = v.Validate(shiftOn(tuesday, 10, 18), testEmployee(8), history, false)
	assert.True(t, result.Valid())
}

func TestValidate_RestPeriodBeforeNextShift(t *testing.T) {
	v := NewValidator(DefaultRules())
	tuesday := monday.AddDate(0, 0, 1)

	// Candidate ends Monday 22:00; the existing Tuesday shift starts 06:00.
	history := []domain.Event{shiftOn(tuesday, 6, 14)}
	result := v.Validate(shiftOn(monday, 14, 22), testEmployee(8), history, false)

	assert.False(t, result.Valid())
	assert.Contains(t, result.First(), "before next shift")
}

func TestValidate_WeeklyCeilingPerContract(t *testing.T) {
	tests := []struct {
		contractHours int
		ceiling       int
	}{
		{4, 30},
		{6, 40},
		{8, 53},
		{0, 53},  // nil contract defaults to 8
		{5, 53},  // unknown tier falls back
		{10, 53}, // unknown tier falls back
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("contract_%d", tc.contractHours), func(t *testing.T) {
			rules := DefaultRules()
			resolved := testEmployee(tc.contractHours).DailyContractHours()
			assert.Equal(t, tc.ceiling, rules.MaxWeeklyHours(resolved))
		})
	}
}

func TestValidate_WeeklyLimit(t *testing.T) {
	v := NewValidator(DefaultRules())

	// Five 10h shifts Monday-Friday put 50h in the week. A 4h Saturday
	// shift totals 54h and breaches the 53h ceiling for 8h contracts.
	var history []domain.Event
	for i := 0; i < 5; i++ {
		history = append(history, shiftOn(monday.AddDate(0, 0, i), 8, 18))
	}

	result := v.Validate(shiftOn(monday.AddDate(0, 0, 5), 8, 12), testEmployee(8), history, false)
	assert.False(t, result.Valid())
	assert.Contains(t, result.First(), "weekly work limit exceeded for 8-hour contract")
	assert.Contains(t, result.First(), "54.0h (max 53h)")

	// A 2h Saturday shift totals 52h and passes.
	result = v.Validate(shiftOn(monday.AddDate(0, 0, 5), 8, 10), testEmployee(8), history, false)
	assert.True(t, result.Valid())
}

func TestValidate_WeeklyLimitTighterContract(t *testing.T) {
	v := NewValidator(DefaultRules())

	// 28h already worked; a 4h shift breaks the 30h ceiling of a 4h contract
	// but would pass an 8h contract.
	var history []domain.Event
	for i := 0; i < 4; i++ {
		history = append(history, shiftOn(monday.AddDate(0, 0, i), 9, 16))
	}
	candidate := shiftOn(monday.AddDate(0, 0, 4), 9, 13)

	result := v.Validate(candidate, testEmployee(4), history, false)
	assert.False(t, result.Valid())
	assert.Contains(t, result.First(), "4-hour contract")

	result = v.Validate(candidate, testEmployee(8), history, false)
	assert.True(t, result.Valid())
}

func TestValidate_ConsecutiveDays(t *testing.T) {
	v := NewValidator(DefaultRules())

	// Six straight work days; the seventh makes a run of 7. Shifts are kept
	// at 7h so the weekly ceiling stays out of the picture.
	var history []domain.Event
	for i := 0; i < 6; i++ {
		history = append(history, shiftOn(monday.AddDate(0, 0, i), 9, 16))
	}

	result := v.Validate(shiftOn(monday.AddDate(0, 0, 6), 9, 16), testEmployee(8), history, false)
	assert.False(t, result.Valid())
	assert.Contains(t, result.First(), "consecutive work days limit exceeded: 7 days (max 6)")
}

func TestValidate_ConsecutiveDaysRestDayResets(t *testing.T) {
	v := NewValidator(DefaultRules())

	// Work days with a gap on day 3 never form a run above 6.
	var history []domain.Event
	for _, offset := range []int{0, 1, 2, 4, 5, 6} {
		history = append(history, shiftOn(monday.AddDate(0, 0, offset), 9, 17))
	}

	result := v.Validate(shiftOn(monday.AddDate(0, 0, 7), 9, 17), testEmployee(8), history, false)
	assert.True(t, result.Valid())
}

func TestValidate_ConsecutiveDaysBackwardRun(t *testing.T) {
	v := NewValidator(DefaultRules())

	// Candidate fills the gap between two three-day blocks, joining them
	// into a run of 7.
	var history []domain.Event
	for _, offset := range []int{-3, -2, -1, 1, 2, 3} {
		history = append(history, shiftOn(monday.AddDate(0, 0, offset), 9, 17))
	}

	result := v.Validate(shiftOn(monday, 9, 17), testEmployee(8), history, false)
	assert.False(t, result.Valid())
	assert.Contains(t, result.First(), "consecutive work days limit exceeded")
}

func TestValidate_AccumulatesViolations(t *testing.T) {
	v := NewValidator(DefaultRules())

	// Six consecutive days each carrying a 10h shift; the candidate adds a
	// second long shift on day six with no rest gap. Daily, rest and
	// consecutive-day rules all fire.
	var history []domain.Event
	for i := 0; i < 6; i++ {
		history = append(history, shiftOn(monday.AddDate(0, 0, i), 0, 10))
	}

	result := v.Validate(shiftOn(monday.AddDate(0, 0, 6), 11, 21), testEmployee(8), history, false)

	assert.False(t, result.Valid())
	assert.GreaterOrEqual(t, len(result.Errors), 2)
}

func TestValidate_UpdateExcludesStoredCopyByID(t *testing.T) {
	v := NewValidator(DefaultRules())

	stored := shiftOn(monday, 8, 20) // 12h shift already on the day
	history := []domain.Event{stored}

	// Moving the same shift by one hour must not double-count the stored
	// copy against the daily cap.
	candidate := stored
	candidate.Start = tp(monday.Add(9 * time.Hour))
	candidate.End = tp(monday.Add(21 * time.Hour))

	result := v.Validate(candidate, testEmployee(8), history, true)
	assert.True(t, result.Valid())

	// Without the update flag the stored copy counts and the day overflows.
	result = v.Validate(candidate, testEmployee(8), history, false)
	assert.False(t, result.Valid())
}

func TestValidate_UpdateWithoutIdentityExcludesNothing(t *testing.T) {
	v := NewValidator(DefaultRules())

	history := []domain.Event{shiftOn(monday, 8, 20)}

	candidate := domain.Event{
		Start: tp(monday.Add(9 * time.Hour)),
		End:   tp(monday.Add(21 * time.Hour)),
	}

	result := v.Validate(candidate, testEmployee(8), history, true)
	assert.False(t, result.Valid())
}

func TestValidate_HistoryLeaveEntriesIgnored(t *testing.T) {
	v := NewValidator(DefaultRules())

	// Leave entries never contribute hours or work days.
	var history []domain.Event
	for i := 0; i < 6; i++ {
		ev := shiftOn(monday.AddDate(0, 0, i), 9, 17)
		ev.LeaveType = "Paid leave"
		history = append(history, ev)
	}

	result := v.Validate(shiftOn(monday.AddDate(0, 0, 6), 9, 17), testEmployee(8), history, false)
	assert.True(t, result.Valid())
}

func TestLongestRun_Window(t *testing.T) {
	days := map[time.Time]struct{}{}
	for i := -20; i <= 0; i++ {
		days[monday.AddDate(0, 0, i)] = struct{}{}
	}

	// A 21-day streak truncated to the 14-day scan window still reports a
	// run well above any legal maximum.
	run := longestRun(days, monday, 14)
	assert.Equal(t, 15, run)
}
