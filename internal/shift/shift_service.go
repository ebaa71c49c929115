package shift

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-schedule/internal/compliance"
	"go-schedule/internal/domain"
	"go-schedule/internal/events"
	"go-schedule/internal/messaging/kafka"
	"go-schedule/internal/shared/contextutil"
	shifterrors "go-schedule/internal/shift/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// historyWindowDays bounds the history fetched around a candidate shift. The
// consecutive-day rule scans two weeks on each side, so one extra day of
// slack keeps the window safely wider than any rule's reach.
const historyWindowDays = 15

// ComplianceError carries the full set of rule violations for a rejected
// shift so the transport layer can surface all of them at once.
type ComplianceError struct {
	Result compliance.Result
}

func (e *ComplianceError) Error() string {
	return e.Result.First()
}

//go:generate mockgen -source=shift_service.go -destination=mock/shift_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEventRequest) (EventResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]EventResponse, error)
	GetByID(ctx context.Context, id string) (EventResponse, error)
	Update(ctx context.Context, id string, req UpdateEventRequest) (EventResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	validator compliance.Validator
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, validator compliance.Validator, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, validator, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	validator compliance.Validator,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("shift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		validator: validator,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEventRequest) (EventResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create event requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EventResponse{}, shifterrors.ErrInvalidEmployeeID
	}

	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		return EventResponse{}, err
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		return EventResponse{}, err
	}

	candidate := domain.Event{
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
		LeaveType:  req.LeaveType,
		Activity:   req.Activity,
	}

	if err := s.validate(ctx, candidate, false); err != nil {
		return EventResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create event begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EventResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	stored := &ScheduleEvent{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		StartTime:  start,
		EndTime:    end,
		LeaveType:  req.LeaveType,
		Activity:   req.Activity,
	}
	if err := qtx.Create(ctx, stored); err != nil {
		s.logger.Error("create event persist failed", zap.String("request_id", rid), zap.Error(err))
		return EventResponse{}, err
	}

	if err := s.enqueueRecalc(ctx, tx, rid, employeeID, affectedDates(stored.toDomain())); err != nil {
		return EventResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create event commit failed", zap.String("request_id", rid), zap.Error(err))
		return EventResponse{}, err
	}

	s.logger.Info("event created",
		zap.String("request_id", rid),
		zap.String("event_id", stored.ID.String()),
		zap.String("employee_id", employeeID.String()),
	)
	return toResponse(*stored), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]EventResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, shifterrors.ErrInvalidEmployeeID
	}

	if _, err := s.repo.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shifterrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list events failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	resp := make([]EventResponse, len(rows))
	for i, row := range rows {
		resp[i] = toResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EventResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EventResponse{}, shifterrors.ErrInvalidEventID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EventResponse{}, shifterrors.ErrEventNotFound
		}
		return EventResponse{}, err
	}
	return toResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEventRequest) (EventResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return EventResponse{}, shifterrors.ErrInvalidEventID
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EventResponse{}, shifterrors.ErrEventNotFound
		}
		return EventResponse{}, err
	}

	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		return EventResponse{}, err
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		return EventResponse{}, err
	}

	// Weeks touched before and after the move both need fresh summaries.
	previous := stored.toDomain()

	candidate := domain.Event{
		ID:         stored.ID,
		EmployeeID: stored.EmployeeID,
		Start:      start,
		End:        end,
		LeaveType:  req.LeaveType,
		Activity:   req.Activity,
	}

	if err := s.validate(ctx, candidate, true); err != nil {
		return EventResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update event begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EventResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	stored.StartTime = start
	stored.EndTime = end
	stored.LeaveType = req.LeaveType
	stored.Activity = req.Activity
	if err := qtx.Update(ctx, stored); err != nil {
		s.logger.Error("update event persist failed", zap.String("request_id", rid), zap.Error(err))
		return EventResponse{}, err
	}

	dates := append(affectedDates(previous), affectedDates(candidate)...)
	if err := s.enqueueRecalc(ctx, tx, rid, stored.EmployeeID, dates); err != nil {
		return EventResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update event commit failed", zap.String("request_id", rid), zap.Error(err))
		return EventResponse{}, err
	}

	s.logger.Info("event updated",
		zap.String("request_id", rid),
		zap.String("event_id", stored.ID.String()),
	)
	return toResponse(*stored), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return shifterrors.ErrInvalidEventID
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shifterrors.ErrEventNotFound
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete event begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete event persist failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.enqueueRecalc(ctx, tx, rid, stored.EmployeeID, affectedDates(stored.toDomain())); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete event commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.logger.Info("event deleted",
		zap.String("request_id", rid),
		zap.String("event_id", id),
	)
	return nil
}

// validate loads the employee and the surrounding history, then runs the
// working-time rules over the candidate. A rejected candidate surfaces as a
// *ComplianceError holding every violation.
func (s *service) validate(ctx context.Context, candidate domain.Event, isUpdate bool) error {
	employee, err := s.repo.GetEmployee(ctx, candidate.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shifterrors.ErrEmployeeNotFound
		}
		return err
	}

	var history []domain.Event
	if day, ok := candidate.Day(); ok {
		history, err = s.repo.HistoryInRange(ctx, candidate.EmployeeID.String(),
			day.AddDate(0, 0, -historyWindowDays),
			day.AddDate(0, 0, historyWindowDays),
		)
		if err != nil {
			s.logger.Error("load event history failed",
				zap.String("employee_id", candidate.EmployeeID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	result := s.validator.Validate(candidate, employee, history, isUpdate)
	if !result.Valid() {
		s.logger.Info("shift rejected",
			zap.String("employee_id", candidate.EmployeeID.String()),
			zap.Strings("violations", result.Errors),
		)
		return &ComplianceError{Result: result}
	}
	return nil
}

// enqueueRecalc stores one week-recalculation request per distinct affected
// week in the same transaction as the event mutation.
func (s *service) enqueueRecalc(ctx context.Context, tx *sql.Tx, rid string, employeeID uuid.UUID, dates []time.Time) error {
	if s.outbox == nil || len(dates) == 0 {
		return nil
	}

	outboxRepo := s.outbox.WithTx(tx)
	seen := make(map[time.Time]struct{}, len(dates))
	for _, date := range dates {
		weekStart := domain.WeekStart(date)
		if _, ok := seen[weekStart]; ok {
			continue
		}
		seen[weekStart] = struct{}{}

		event := events.WeekRecalcEvent{
			EventType:  events.EventTypeWeekRecalc,
			EmployeeID: employeeID.String(),
			Date:       weekStart.Format("2006-01-02"),
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}

		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "schedule_event",
			AggregateID:   employeeID.String(),
			EventType:     event.EventType,
			Topic:         events.WeekRecalcTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("week recalc outbox persist failed",
				zap.String("employee_id", employeeID.String()),
				zap.String("week_start", event.Date),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

// affectedDates lists the dated days an event contributes hours to.
func affectedDates(ev domain.Event) []time.Time {
	if day, ok := ev.Day(); ok {
		return []time.Time{day}
	}
	return nil
}

func parseTimestamp(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, shifterrors.ErrInvalidTimestamp
	}
	return &t, nil
}

func toResponse(e ScheduleEvent) EventResponse {
	resp := EventResponse{
		ID:         e.ID.String(),
		EmployeeID: e.EmployeeID.String(),
		LeaveType:  e.LeaveType,
		Activity:   e.Activity,
		Kind:       domain.Classify(e.toDomain()).String(),
	}
	if e.StartTime != nil {
		v := e.StartTime.UTC().Format(time.RFC3339)
		resp.StartTime = &v
	}
	if e.EndTime != nil {
		v := e.EndTime.UTC().Format(time.RFC3339)
		resp.EndTime = &v
	}
	return resp
}
