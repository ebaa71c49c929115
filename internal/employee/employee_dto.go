package employee

type CreateEmployeeRequest struct {
	FullName           string  `json:"full_name" binding:"required"`
	Email              string  `json:"email" binding:"required,email"`
	ContractDailyHours *int    `json:"contract_daily_hours" binding:"omitempty,oneof=4 6 8"`
	HourlyRate         *string `json:"hourly_rate"`
}

type UpdateEmployeeRequest struct {
	FullName           string  `json:"full_name" binding:"required"`
	Email              string  `json:"email" binding:"required,email"`
	ContractDailyHours *int    `json:"contract_daily_hours" binding:"omitempty,oneof=4 6 8"`
	HourlyRate         *string `json:"hourly_rate"`
}

type EmployeeResponse struct {
	ID                 string `json:"id"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	ContractDailyHours *int   `json:"contract_daily_hours,omitempty"`
	HourlyRate         string `json:"hourly_rate"`
}
