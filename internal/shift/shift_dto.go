package shift

type CreateEventRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	LeaveType  string  `json:"leave_type"`
	Activity   string  `json:"activity"`
}

type UpdateEventRequest struct {
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	LeaveType string  `json:"leave_type"`
	Activity  string  `json:"activity"`
}

type EventResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	LeaveType  string  `json:"leave_type,omitempty"`
	Activity   string  `json:"activity,omitempty"`
	Kind       string  `json:"kind"`
}
