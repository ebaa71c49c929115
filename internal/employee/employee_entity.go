package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Employee struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName string    `gorm:"column:full_name;type:varchar(120);not null"`
	Email    string    `gorm:"column:email;type:varchar(160);uniqueIndex:uq_employee_email"`
	// ContractDailyHours is the contracted hours per working day. NULL means
	// the company default applies.
	ContractDailyHours *int            `gorm:"column:contract_daily_hours"`
	HourlyRate         decimal.Decimal `gorm:"column:hourly_rate;type:numeric(10,2);not null;default:0"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Employee) TableName() string {
	return "employees"
}
