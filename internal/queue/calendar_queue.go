package queue

import (
	"context"
	"go-event-reservation/internal/model"
)

type Delivery struct {
	Data *model.CalendarSyncMessage
	Ack  func()
	Nack func(requeue bool)
}

type CalendarQueue interface {
	// 發送同步訊息到隊列
	PublishSync(ctx context.Context, msg *model.CalendarSyncMessage) error
	// 訂閱同步隊列
	SubscribeSyncs(ctx context.Context) (<-chan Delivery, error)
}

type CalendarQueueImpl struct {
	// 使用 Go channel 的單機版隊列，測試與單節點部署使用
	ch chan *model.CalendarSyncMessage
}

func NewCalendarQueue(bufferSize int) CalendarQueue {
	return &CalendarQueueImpl{
		ch: make(chan *model.CalendarSyncMessage, bufferSize),
	}
}

func (q *CalendarQueueImpl) PublishSync(ctx context.Context, msg *model.CalendarSyncMessage) error {
	q.ch <- msg
	return nil
}

func (q *CalendarQueueImpl) SubscribeSyncs(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: msg,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- msg // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
