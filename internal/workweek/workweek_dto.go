package workweek

type WeeklySummaryResponse struct {
	ID         string `json:"id,omitempty"`
	EmployeeID string `json:"employee_id"`
	WeekStart  string `json:"week_start"`
	WeekNumber int    `json:"week_number"`
	Year       int    `json:"year"`
	WorkHours  string `json:"work_hours"`
	BreakHours string `json:"break_hours"`
}

type MonthQuery struct {
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

type DailyHoursQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

const (
	DayStatusWork  = "work"
	DayStatusLeave = "leave"
	DayStatusOff   = "day_off"
)

type DailyHoursResponse struct {
	Date      string `json:"date"`
	Status    string `json:"status"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Activity  string `json:"activity,omitempty"`
	LeaveType string `json:"leave_type,omitempty"`
}
