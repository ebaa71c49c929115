package workweek

import (
	"context"
	"database/sql"
	"time"

	"go-schedule/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=workweek_repo.go -destination=mock/workweek_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, s *WeeklySummary) error
	FindByEmployeeAndWeek(ctx context.Context, employeeID string, weekStart time.Time) (*WeeklySummary, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]WeeklySummary, error)
	DeleteByEmployee(ctx context.Context, employeeID string) error
	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)
	EventsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error)
	AllEvents(ctx context.Context, employeeID string) ([]domain.Event, error)
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

func (r *repository) Upsert(ctx context.Context, s *WeeklySummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "week_start"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"week_number", "year", "work_hours", "break_hours", "updated_at",
			}),
		}).
		Create(s).Error
}

func (r *repository) FindByEmployeeAndWeek(ctx context.Context, employeeID string, weekStart time.Time) (*WeeklySummary, error) {
	var s WeeklySummary
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("week_start = ?", weekStart.Format("2006-01-02")).
		First(&s).Error
	return &s, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]WeeklySummary, error) {
	var rows []WeeklySummary
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("week_start ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&WeeklySummary{}).Error
}

// employeeRow reads the columns this module needs from the employees table.
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

// eventRow reads schedule events without importing the shift module.
type eventRow struct {
	ID         uuid.UUID  `gorm:"column:id"`
	EmployeeID uuid.UUID  `gorm:"column:employee_id"`
	StartTime  *time.Time `gorm:"column:start_time"`
	EndTime    *time.Time `gorm:"column:end_time"`
	LeaveType  string     `gorm:"column:leave_type"`
	Activity   string     `gorm:"column:activity"`
}

func (eventRow) TableName() string {
	return "schedule_events"
}

func (r *repository) EventsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error) {
	var rows []eventRow
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("start_time >= ?", from).
		Where("start_time < ?", to.AddDate(0, 0, 1)).
		Where("deleted_at IS NULL").
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return mapEventRows(rows), nil
}

func (r *repository) AllEvents(ctx context.Context, employeeID string) ([]domain.Event, error) {
	var rows []eventRow
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("deleted_at IS NULL").
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return mapEventRows(rows), nil
}

func mapEventRows(rows []eventRow) []domain.Event {
	events := make([]domain.Event, len(rows))
	for i, row := range rows {
		events[i] = domain.Event{
			ID:         row.ID,
			EmployeeID: row.EmployeeID,
			Start:      row.StartTime,
			End:        row.EndTime,
			LeaveType:  row.LeaveType,
			Activity:   row.Activity,
		}
	}
	return events
}
