package shift

import (
	"context"
	"database/sql"
	"time"

	"go-schedule/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=shift_repo.go -destination=mock/shift_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *ScheduleEvent) error
	FindByID(ctx context.Context, id string) (*ScheduleEvent, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]ScheduleEvent, error)
	// HistoryInRange returns the employee's events whose start date falls in
	// [from, to] as core value objects, ordered by start time. The range
	// lookup keeps validation from scanning the full event store.
	HistoryInRange(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error)
	Update(ctx context.Context, e *ScheduleEvent) error
	Delete(ctx context.Context, id string) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *ScheduleEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ScheduleEvent, error) {
	var e ScheduleEvent
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]ScheduleEvent, error) {
	var rows []ScheduleEvent
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_time ASC NULLS LAST").
		Find(&rows).Error
	return rows, err
}

func (r *repository) HistoryInRange(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error) {
	var rows []ScheduleEvent
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("start_time >= ?", from).
		Where("start_time < ?", to.AddDate(0, 0, 1)).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

func (r *repository) Update(ctx context.Context, e *ScheduleEvent) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&ScheduleEvent{}, "id = ?", id).Error
}

func (r *repository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&ScheduleEvent{}).Error
}

// employeeRow reads the snapshot the validator needs from the employees table.
type employeeRow struct {
	ID                 uuid.UUID `gorm:"column:id"`
	FullName           string    `gorm:"column:full_name"`
	ContractDailyHours *int      `gorm:"column:contract_daily_hours"`
}

func (employeeRow) TableName() string {
	return "employees"
}

func (r *repository) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	var row employeeRow
	err := r.db.WithContext(ctx).
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &domain.Employee{
		ID:                 row.ID,
		FullName:           row.FullName,
		ContractDailyHours: row.ContractDailyHours,
	}, nil
}
