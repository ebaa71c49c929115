package domain

import "github.com/google/uuid"

// DefaultContractDailyHours applies when an employee has no declared contract.
const DefaultContractDailyHours = 8

// Employee is the read-only snapshot the scheduling core works with.
// ContractDailyHours is the declared daily commitment (4, 6 or 8); nil means
// unset and falls back to the 8-hour default.
type Employee struct {
	ID                 uuid.UUID
	FullName           string
	ContractDailyHours *int
}

// DailyContractHours resolves the declared contract, defaulting to 8.
func (e Employee) DailyContractHours() int {
	if e.ContractDailyHours == nil || *e.ContractDailyHours <= 0 {
		return DefaultContractDailyHours
	}
	return *e.ContractDailyHours
}
