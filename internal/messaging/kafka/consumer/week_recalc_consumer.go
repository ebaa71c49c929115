package consumer

import (
	"context"
	"encoding/json"
	"go-schedule/internal/events"
	"go-schedule/internal/workweek"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeWeekRecalc(
	ctx context.Context,
	reader *kafkago.Reader,
	workweekService workweek.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.week_recalc")
	log.Info("week recalc consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("week recalc consumer stopped")
				return
			}
			log.Error("fetch week recalc message failed", zap.Error(err))
			continue
		}

		var event events.WeekRecalcEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode week recalc event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.Date == "" {
			_, err = workweekService.RecalculateAll(ctx, event.EmployeeID)
		} else {
			_, err = workweekService.RecalculateWeek(ctx, event.EmployeeID, event.Date)
		}
		if err != nil {
			log.Error("recalculate weekly summary failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("date", event.Date),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit week recalc message failed", zap.Error(err))
			continue
		}

		log.Info("weekly summary recalculated",
			zap.String("employee_id", event.EmployeeID),
			zap.String("date", event.Date),
		)
	}
}
