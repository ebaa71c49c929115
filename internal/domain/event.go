package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is a scheduled shift or a leave entry. A work shift carries concrete
// start/end timestamps and no leave tag; a leave entry carries a leave tag and
// conventionally start == end == midnight of the leave day (or no timestamps
// at all for a pure leave day).
type Event struct {
	ID         uuid.UUID // uuid.Nil when the event has no identity yet
	EmployeeID uuid.UUID
	Start      *time.Time
	End        *time.Time
	LeaveType  string
	Activity   string
}

// Kind is the derived classification of an event. Every event resolves to
// exactly one kind.
type Kind int

const (
	KindWork Kind = iota
	KindPaidLeave
	KindUnpaidLeave
)

func (k Kind) String() string {
	switch k {
	case KindWork:
		return "work"
	case KindPaidLeave:
		return "paid_leave"
	default:
		return "unpaid_leave"
	}
}

// Leave tags credited toward worked hours at the employee's daily contract.
var paidLeaveTypes = map[string]struct{}{
	"Paid leave":      {},
	"Sick leave":      {},
	"Maternity leave": {},
	"Paternity leave": {},
}

// IsPaidLeaveType reports whether a leave tag belongs to the paid set.
// Unknown non-empty tags are unpaid, which keeps them out of hour credit.
func IsPaidLeaveType(leaveType string) bool {
	_, ok := paidLeaveTypes[strings.TrimSpace(leaveType)]
	return ok
}

// Classify partitions an event into work / paid leave / unpaid leave.
// An event with any non-empty leave tag is never a work event regardless of
// its timestamps. A tag-less event without both timestamps cannot be credited
// as work and falls through to unpaid leave (zero credit everywhere).
func Classify(ev Event) Kind {
	leaveType := strings.TrimSpace(ev.LeaveType)
	if leaveType != "" {
		if IsPaidLeaveType(leaveType) {
			return KindPaidLeave
		}
		return KindUnpaidLeave
	}
	if ev.Start == nil || ev.End == nil {
		return KindUnpaidLeave
	}
	return KindWork
}

// IsWorkShift reports whether the event is a valid work shift: no leave tag
// and both timestamps present.
func (ev Event) IsWorkShift() bool {
	return Classify(ev) == KindWork
}

// Day returns the calendar date of the event's start, normalized to midnight
// UTC. ok is false when the event has no start timestamp.
func (ev Event) Day() (time.Time, bool) {
	if ev.Start == nil {
		return time.Time{}, false
	}
	return DateOf(*ev.Start), true
}

// DurationMinutes is the wall-clock shift length in minutes. Zero when either
// timestamp is missing.
func (ev Event) DurationMinutes() int64 {
	if ev.Start == nil || ev.End == nil {
		return 0
	}
	return int64(ev.End.Sub(*ev.Start) / time.Minute)
}
