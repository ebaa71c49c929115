package events

import "time"

const (
	WeekRecalcTopic = "schedule.week.recalc.v1"

	EventTypeWeekRecalc = "week.recalc.requested"
	EventTypeFullRecalc = "full.recalc.requested"
)

// WeekRecalcEvent asks the recalculation consumer to rebuild summaries for an
// employee. Date is any day inside the affected week (YYYY-MM-DD); an empty
// Date requests a full rebuild of every week.
type WeekRecalcEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
