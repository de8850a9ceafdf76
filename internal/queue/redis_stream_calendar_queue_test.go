package queue

import (
	"context"
	"testing"
	"time"

	"go-event-reservation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- 1. 建構 ---

func TestNewRedisStreamCalendarQueue(t *testing.T) {
	rdb := requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	t.Run("success", func(t *testing.T) {
		q, err := NewRedisStreamCalendarQueue(rdb, "test-consumer", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})

	t.Run("empty_consumer_id_generates_uuid", func(t *testing.T) {
		cleanupStream(ctx, t)
		q, err := NewRedisStreamCalendarQueue(rdb, "", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})
}

// --- 2. 訂閱與投遞：驗證「發出去的內容」與「收進來的內容」一致 ---

func TestRedisStreamCalendarQueue_Subscribe_deliversPublishedMessage(t *testing.T) {
	rdb := requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := NewRedisStreamCalendarQueue(rdb, "deliver-test", nil)
	require.NoError(t, err)

	msg := &model.CalendarSyncMessage{
		Action:        model.CalendarSyncAdd,
		UserID:        10,
		EventID:       20,
		ReservationID: "res-deliver",
	}
	require.NoError(t, q.PublishSync(ctx, msg))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeSyncs(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok, "應收到一筆")
		require.NotNil(t, d.Data)
		assert.Equal(t, msg.Action, d.Data.Action)
		assert.Equal(t, msg.UserID, d.Data.UserID)
		assert.Equal(t, msg.EventID, d.Data.EventID)
		assert.Equal(t, msg.ReservationID, d.Data.ReservationID)
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout 未收到訊息")
	}
}

// --- 3. Nack(false) 結果：丟棄後該訊息不應再被投遞 ---

func TestRedisStreamCalendarQueue_NackDiscard_preventsRedelivery(t *testing.T) {
	rdb := requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := NewRedisStreamCalendarQueue(rdb, "nack-discard-test", nil)
	require.NoError(t, err)

	msg := &model.CalendarSyncMessage{
		Action:        model.CalendarSyncRemove,
		UserID:        7,
		EventID:       8,
		ReservationID: "res-nack-discard",
	}
	require.NoError(t, q.PublishSync(ctx, msg))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeSyncs(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		require.NotNil(t, d.Data)
		assert.Equal(t, msg.ReservationID, d.Data.ReservationID)
		d.Nack(false)
	case <-subCtx.Done():
		t.Fatal("timeout 未收到第一筆")
	}

	// 驗證結果：短時間內不應再收到同一筆（已丟棄）
	select {
	case d, ok := <-delCh:
		if ok && d.Data != nil && d.Data.ReservationID == msg.ReservationID {
			t.Fatalf("Nack(false) 後不應再投遞同一筆: ReservationID=%s", d.Data.ReservationID)
		}
	case <-time.After(2 * time.Second):
		// 2 秒內無第二次投遞，視為已丟棄
	}
	cancel()
}

// --- 4. Nack(true) 結果：重試時應在約 ClaimMinIdleTime 後再次投遞 ---

func TestRedisStreamCalendarQueue_NackRequeue_redeliversAfterIdle(t *testing.T) {
	rdb := requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	cfg := &RedisStreamCalendarQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 500 * time.Millisecond,
	}
	q, err := NewRedisStreamCalendarQueue(rdb, "nack-requeue-test", cfg)
	require.NoError(t, err)

	msg := &model.CalendarSyncMessage{
		Action:        model.CalendarSyncAdd,
		UserID:        9,
		EventID:       10,
		ReservationID: "res-requeue",
	}
	require.NoError(t, q.PublishSync(ctx, msg))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeSyncs(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		require.NotNil(t, d.Data)
		assert.Equal(t, msg.ReservationID, d.Data.ReservationID)
		d.Nack(true)
	case <-subCtx.Done():
		t.Fatal("timeout 未收到第一筆")
	}

	// 驗證結果：XAUTOCLAIM 領回後應再次收到同一筆
	select {
	case d, ok := <-delCh:
		require.True(t, ok, "Nack(requeue) 後應在 ClaimMinIdleTime 後再次投遞")
		require.NotNil(t, d.Data)
		assert.Equal(t, msg.ReservationID, d.Data.ReservationID, "重試應為同一筆")
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout 未收到重試投遞")
	}
}

// --- 5. 毒藥消息：超過 MaxRetryCount 後應被丟棄，不再投遞 ---

func TestRedisStreamCalendarQueue_poisonMessage_discardedAfterMaxRetries(t *testing.T) {
	rdb := requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	// 注入短逾時與較小重試次數，測試可在數秒內完成
	cfg := &RedisStreamCalendarQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		MaxRetryCount:      3,
		ReadGroupBlockTime: 200 * time.Millisecond,
	}
	q, err := NewRedisStreamCalendarQueue(rdb, "poison-test", cfg)
	require.NoError(t, err)

	msg := &model.CalendarSyncMessage{
		Action:        model.CalendarSyncAdd,
		UserID:        99,
		EventID:       100,
		ReservationID: "res-poison",
	}
	require.NoError(t, q.PublishSync(ctx, msg))

	subCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	delCh, err := q.SubscribeSyncs(subCtx)
	require.NoError(t, err)

	// 每次收到都 Nack(requeue)；超過 MaxRetryCount 後實作會丟棄，不再投遞
	received := 0
	waitNoMore := 500 * time.Millisecond
loop:
	for {
		select {
		case d, ok := <-delCh:
			if !ok {
				t.Fatalf("channel 提早關閉，只收到 %d 次", received)
			}
			require.NotNil(t, d.Data)
			assert.Equal(t, msg.ReservationID, d.Data.ReservationID)
			received++
			d.Nack(true)
		case <-time.After(waitNoMore):
			if received >= 1 {
				break loop
			}
			t.Fatalf("timeout 未收到任何一筆")
		case <-subCtx.Done():
			t.Fatalf("test context timeout，只收到 %d 次", received)
		}
	}

	require.GreaterOrEqual(t, received, 1, "應至少收到 1 次")
	// 驗證結果：已不再投遞；若再收到同一筆則失敗
	select {
	case d, ok := <-delCh:
		if ok && d.Data != nil && d.Data.ReservationID == msg.ReservationID {
			t.Fatalf("超過 MaxRetryCount 後應丟棄毒藥消息: ReservationID=%s", d.Data.ReservationID)
		}
	case <-time.After(500 * time.Millisecond):
		// 短時間內無再投遞，視為已丟棄
	}
}

// --- 關閉行為：context 取消時 channel 關閉 ---

func TestRedisStreamCalendarQueue_Subscribe_ctxCancel_closesChannel(t *testing.T) {
	rdb := requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := NewRedisStreamCalendarQueue(rdb, "cancel-test", nil)
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	delCh, err := q.SubscribeSyncs(subCtx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-delCh:
		assert.False(t, ok, "context 取消後 channel 應關閉")
	case <-time.After(3 * time.Second):
		t.Fatal("channel 未在時限內關閉")
	}
}
