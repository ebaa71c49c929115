package workweek

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WeeklySummary is the persisted aggregation result for one employee and one
// Monday-anchored week.
type WeeklySummary struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_weekly_summary_employee_week"`
	WeekStart  time.Time       `gorm:"column:week_start;type:date;not null;uniqueIndex:uq_weekly_summary_employee_week"`
	WeekNumber int             `gorm:"column:week_number;type:int;not null"`
	Year       int             `gorm:"column:year;type:int;not null"`
	WorkHours  decimal.Decimal `gorm:"column:work_hours;type:numeric(6,2);not null"`
	BreakHours decimal.Decimal `gorm:"column:break_hours;type:numeric(6,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (WeeklySummary) TableName() string {
	return "weekly_summaries"
}
