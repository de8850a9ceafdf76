package worker

import (
	"context"
	"go-event-reservation/internal/model"
	"go-event-reservation/internal/queue"
	"go-event-reservation/pkg/logger"

	"go.uber.org/zap"
)

// CalendarSync 行事曆協作方的介面，由 internal/calendar 提供實作
type CalendarSync interface {
	AddEvent(ctx context.Context, msg *model.CalendarSyncMessage) error
	RemoveEvent(ctx context.Context, msg *model.CalendarSyncMessage) error
}

type CalendarWorker interface {
	// 訂閱同步隊列
	Start(ctx context.Context) error
}

type CalendarWorkerImpl struct {
	sync  CalendarSync
	queue queue.CalendarQueue
}

func NewCalendarWorker(sync CalendarSync, queue queue.CalendarQueue) CalendarWorker {
	return &CalendarWorkerImpl{
		sync:  sync,
		queue: queue,
	}
}

func (w *CalendarWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeSyncs(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			err := w.dispatch(ctx, msg.Data)

			if err != nil {
				// 行事曆暫時連不上就重試；重試是隊列的事，預約狀態不受影響
				logger.WithComponent("worker").Warn("calendar sync failed, will retry",
					zap.String("action", string(msg.Data.Action)),
					zap.String("reservation_id", msg.Data.ReservationID),
					zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}

func (w *CalendarWorkerImpl) dispatch(ctx context.Context, msg *model.CalendarSyncMessage) error {
	switch msg.Action {
	case model.CalendarSyncRemove:
		return w.sync.RemoveEvent(ctx, msg)
	default:
		return w.sync.AddEvent(ctx, msg)
	}
}
