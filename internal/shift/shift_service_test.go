package shift

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-schedule/internal/compliance"
	"go-schedule/internal/domain"
	"go-schedule/internal/messaging/kafka"
	shifterrors "go-schedule/internal/shift/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn            func(tx *sql.Tx) Repository
	createFn            func(ctx context.Context, e *ScheduleEvent) error
	findByIDFn          func(ctx context.Context, id string) (*ScheduleEvent, error)
	findAllByEmployeeFn func(ctx context.Context, employeeID string) ([]ScheduleEvent, error)
	historyInRangeFn    func(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error)
	updateFn            func(ctx context.Context, e *ScheduleEvent) error
	deleteFn            func(ctx context.Context, id string) error
	deleteByEmployeeFn  func(ctx context.Context, employeeID string) error
	getEmployeeFn       func(ctx context.Context, employeeID string) (*domain.Employee, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, e *ScheduleEvent) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*ScheduleEvent, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]ScheduleEvent, error) {
	return f.findAllByEmployeeFn(ctx, employeeID)
}
func (f *fakeRepo) HistoryInRange(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error) {
	return f.historyInRangeFn(ctx, employeeID, from, to)
}
func (f *fakeRepo) Update(ctx context.Context, e *ScheduleEvent) error {
	return f.updateFn(ctx, e)
}
func (f *fakeRepo) Delete(ctx context.Context, id string) error { return f.deleteFn(ctx, id) }
func (f *fakeRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	return f.deleteByEmployeeFn(ctx, employeeID)
}
func (f *fakeRepo) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return f.getEmployeeFn(ctx, employeeID)
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, r string) error { return nil }

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func strp(s string) *string { return &s }

func newFakeRepo(employee *domain.Employee) *fakeRepo {
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.getEmployeeFn = func(ctx context.Context, employeeID string) (*domain.Employee, error) {
		if employee == nil {
			return nil, gorm.ErrRecordNotFound
		}
		return employee, nil
	}
	repo.historyInRangeFn = func(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error) {
		return nil, nil
	}
	return repo
}

func TestCreate_WorkShift(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	empl := &domain.Employee{ID: uuid.New()}

	var saved *ScheduleEvent
	repo := newFakeRepo(empl)
	repo.createFn = func(ctx context.Context, e *ScheduleEvent) error {
		saved = e
		return nil
	}

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, compliance.NewValidator(compliance.DefaultRules()), outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), CreateEventRequest{
		EmployeeID: empl.ID.String(),
		StartTime:  strp("2024-03-04T09:00:00Z"),
		EndTime:    strp("2024-03-04T17:00:00Z"),
		Activity:   "Front desk",
	})

	assert.NoError(t, err)
	assert.Equal(t, "work", resp.Kind)
	assert.Equal(t, empl.ID.String(), resp.EmployeeID)
	assert.NotNil(t, saved)

	// One recalculation request for the affected week, inside the tx.
	assert.Len(t, outbox.created, 1)
	assert.Equal(t, kafka.OutboxStatusPending, outbox.created[0].Status)
	assert.Contains(t, string(outbox.created[0].Payload), "2024-03-04")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_LeaveEntryWithoutTimestamps(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	empl := &domain.Employee{ID: uuid.New()}
	repo := newFakeRepo(empl)
	repo.createFn = func(ctx context.Context, e *ScheduleEvent) error { return nil }

	svc := NewService(db, repo, compliance.NewValidator(compliance.DefaultRules()))

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), CreateEventRequest{
		EmployeeID: empl.ID.String(),
		LeaveType:  "Paid leave",
	})

	assert.NoError(t, err)
	assert.Equal(t, "paid_leave", resp.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RejectedByRules(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	empl := &domain.Employee{ID: uuid.New()}
	repo := newFakeRepo(empl)
	repo.historyInRangeFn = func(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error) {
		// 7h already worked on the requested day.
		start := monday.Add(0 * time.Hour)
		end := monday.Add(7 * time.Hour)
		return []domain.Event{{ID: uuid.New(), Start: &start, End: &end}}, nil
	}
	repo.createFn = func(ctx context.Context, e *ScheduleEvent) error {
		t.Fatal("a rejected shift must not be persisted")
		return nil
	}

	svc := NewService(db, repo, compliance.NewValidator(compliance.DefaultRules()))

	_, err := svc.Create(context.Background(), CreateEventRequest{
		EmployeeID: empl.ID.String(),
		StartTime:  strp("2024-03-04T17:00:00Z"),
		EndTime:    strp("2024-03-04T23:00:00Z"),
	})

	var complianceErr *ComplianceError
	assert.ErrorAs(t, err, &complianceErr)
	assert.NotEmpty(t, complianceErr.Result.Errors)
	assert.Contains(t, complianceErr.Error(), "daily work limit exceeded")
}

func TestCreate_InvalidInput(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeRepo(nil), compliance.NewValidator(compliance.DefaultRules()))

	_, err := svc.Create(context.Background(), CreateEventRequest{EmployeeID: "nope"})
	assert.ErrorIs(t, err, shifterrors.ErrInvalidEmployeeID)

	_, err = svc.Create(context.Background(), CreateEventRequest{
		EmployeeID: uuid.NewString(),
		StartTime:  strp("04/03/2024 09:00"),
	})
	assert.ErrorIs(t, err, shifterrors.ErrInvalidTimestamp)
}

func TestCreate_EmployeeNotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeRepo(nil), compliance.NewValidator(compliance.DefaultRules()))

	_, err := svc.Create(context.Background(), CreateEventRequest{
		EmployeeID: uuid.NewString(),
		StartTime:  strp("2024-03-04T09:00:00Z"),
		EndTime:    strp("2024-03-04T17:00:00Z"),
	})
	assert.ErrorIs(t, err, shifterrors.ErrEmployeeNotFound)
}

func TestUpdate_MoveExcludesStoredCopy(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	empl := &domain.Employee{ID: uuid.New()}
	eventID := uuid.New()
	start := monday.Add(8 * time.Hour)
	end := monday.Add(20 * time.Hour)
	stored := &ScheduleEvent{ID: eventID, EmployeeID: empl.ID, StartTime: &start, EndTime: &end}

	repo := newFakeRepo(empl)
	repo.findByIDFn = func(ctx context.Context, id string) (*ScheduleEvent, error) {
		ev := *stored
		return &ev, nil
	}
	repo.historyInRangeFn = func(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Event, error) {
		// The stored copy shows up in its own history; it must be excluded
		// by id or the moved 12h shift would double-count.
		return []domain.Event{stored.toDomain()}, nil
	}
	var updated *ScheduleEvent
	repo.updateFn = func(ctx context.Context, e *ScheduleEvent) error {
		updated = e
		return nil
	}

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, compliance.NewValidator(compliance.DefaultRules()), outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Update(context.Background(), eventID.String(), UpdateEventRequest{
		StartTime: strp("2024-03-04T09:00:00Z"),
		EndTime:   strp("2024-03-04T21:00:00Z"),
	})

	assert.NoError(t, err)
	assert.Equal(t, eventID.String(), resp.ID)
	assert.NotNil(t, updated)
	assert.Len(t, outbox.created, 1) // same week before and after the move
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MoveAcrossWeeksQueuesBothWeeks(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	empl := &domain.Employee{ID: uuid.New()}
	eventID := uuid.New()
	start := monday.Add(9 * time.Hour)
	end := monday.Add(17 * time.Hour)
	stored := &ScheduleEvent{ID: eventID, EmployeeID: empl.ID, StartTime: &start, EndTime: &end}

	repo := newFakeRepo(empl)
	repo.findByIDFn = func(ctx context.Context, id string) (*ScheduleEvent, error) {
		ev := *stored
		return &ev, nil
	}
	repo.updateFn = func(ctx context.Context, e *ScheduleEvent) error { return nil }

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, compliance.NewValidator(compliance.DefaultRules()), outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Update(context.Background(), eventID.String(), UpdateEventRequest{
		StartTime: strp("2024-03-12T09:00:00Z"),
		EndTime:   strp("2024-03-12T17:00:00Z"),
	})

	assert.NoError(t, err)
	assert.Len(t, outbox.created, 2)
	assert.Contains(t, string(outbox.created[0].Payload), "2024-03-04")
	assert.Contains(t, string(outbox.created[1].Payload), "2024-03-11")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo(nil)
	repo.findByIDFn = func(ctx context.Context, id string) (*ScheduleEvent, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, compliance.NewValidator(compliance.DefaultRules()))

	_, err := svc.Update(context.Background(), uuid.NewString(), UpdateEventRequest{})
	assert.ErrorIs(t, err, shifterrors.ErrEventNotFound)
}

func TestDelete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	empl := &domain.Employee{ID: uuid.New()}
	eventID := uuid.New()
	start := monday.Add(9 * time.Hour)
	end := monday.Add(17 * time.Hour)

	repo := newFakeRepo(empl)
	repo.findByIDFn = func(ctx context.Context, id string) (*ScheduleEvent, error) {
		return &ScheduleEvent{ID: eventID, EmployeeID: empl.ID, StartTime: &start, EndTime: &end}, nil
	}
	var deletedID string
	repo.deleteFn = func(ctx context.Context, id string) error {
		deletedID = id
		return nil
	}

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, compliance.NewValidator(compliance.DefaultRules()), outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), eventID.String())

	assert.NoError(t, err)
	assert.Equal(t, eventID.String(), deletedID)
	assert.Len(t, outbox.created, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllByEmployee(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	empl := &domain.Employee{ID: uuid.New()}
	start := monday.Add(9 * time.Hour)
	end := monday.Add(17 * time.Hour)

	repo := newFakeRepo(empl)
	repo.findAllByEmployeeFn = func(ctx context.Context, employeeID string) ([]ScheduleEvent, error) {
		return []ScheduleEvent{
			{ID: uuid.New(), EmployeeID: empl.ID, StartTime: &start, EndTime: &end},
			{ID: uuid.New(), EmployeeID: empl.ID, LeaveType: "Day off"},
		}, nil
	}

	svc := NewService(db, repo, compliance.NewValidator(compliance.DefaultRules()))

	resp, err := svc.GetAllByEmployee(context.Background(), empl.ID.String())

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "work", resp[0].Kind)
	assert.Equal(t, "unpaid_leave", resp[1].Kind)
}

func TestGetAllByEmployee_RepoError(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	empl := &domain.Employee{ID: uuid.New()}
	repo := newFakeRepo(empl)
	repo.findAllByEmployeeFn = func(ctx context.Context, employeeID string) ([]ScheduleEvent, error) {
		return nil, errors.New("connection reset")
	}

	svc := NewService(db, repo, compliance.NewValidator(compliance.DefaultRules()))

	_, err := svc.GetAllByEmployee(context.Background(), empl.ID.String())
	assert.Error(t, err)
}
