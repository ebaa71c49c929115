package shift

import (
	"time"

	"go-schedule/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleEvent is a stored shift or leave entry. Work shifts carry both
// timestamps and an empty leave_type; leave entries carry a leave_type and
// optionally midnight timestamps for the leave day.
type ScheduleEvent struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index:idx_schedule_events_employee_start"`
	StartTime  *time.Time     `gorm:"column:start_time;type:timestamptz;index:idx_schedule_events_employee_start"`
	EndTime    *time.Time     `gorm:"column:end_time;type:timestamptz"`
	LeaveType  string         `gorm:"column:leave_type;type:varchar(30);not null;default:''"`
	Activity   string         `gorm:"column:activity;type:varchar(100);not null;default:''"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ScheduleEvent) TableName() string {
	return "schedule_events"
}

// toDomain maps the stored row to the value object the scheduling core
// operates on.
func (e ScheduleEvent) toDomain() domain.Event {
	return domain.Event{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Start:      e.StartTime,
		End:        e.EndTime,
		LeaveType:  e.LeaveType,
		Activity:   e.Activity,
	}
}

func toDomainList(rows []ScheduleEvent) []domain.Event {
	events := make([]domain.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toDomain()
	}
	return events
}
