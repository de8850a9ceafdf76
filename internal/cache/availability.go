package cache

import (
	"context"
	"fmt"
	"time"

	apperrors "go-event-reservation/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache 顯示用的名額快取
// 只服務查詢路徑：實際的預約一律在資料庫裡用條件更新重新驗證，
// 快取落後幾秒是可接受的
type AvailabilityCache interface {
	// 預熱：活動開放時先寫入名額
	WarmUp(ctx context.Context, eventID int, availableSpots int) error
	// 獲取：讀取快取的剩餘名額
	GetAvailableSpots(ctx context.Context, eventID int) (int, error)
	// 更新：狀態轉換提交後刷新名額（盡力而為）
	Refresh(ctx context.Context, eventID int, availableSpots int) error
	// 失效：活動停用或容量調整時移除
	Invalidate(ctx context.Context, eventID int) error
}

type RedisAvailabilityCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client) AvailabilityCache {
	return &RedisAvailabilityCacheImpl{
		client: client,
		ttl:    10 * time.Minute,
	}
}

// 名額 key
func (c *RedisAvailabilityCacheImpl) getSpotsKey(eventID int) string {
	return fmt.Sprintf("event:%d:spots", eventID)
}

func (c *RedisAvailabilityCacheImpl) WarmUp(ctx context.Context, eventID int, availableSpots int) error {
	key := c.getSpotsKey(eventID)
	return c.client.Set(ctx, key, availableSpots, c.ttl).Err()
}

func (c *RedisAvailabilityCacheImpl) GetAvailableSpots(ctx context.Context, eventID int) (int, error) {
	key := c.getSpotsKey(eventID)
	val, err := c.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return -1, apperrors.ErrEventNotFound
	}
	return val, err
}

func (c *RedisAvailabilityCacheImpl) Refresh(ctx context.Context, eventID int, availableSpots int) error {
	key := c.getSpotsKey(eventID)
	return c.client.Set(ctx, key, availableSpots, c.ttl).Err()
}

func (c *RedisAvailabilityCacheImpl) Invalidate(ctx context.Context, eventID int) error {
	key := c.getSpotsKey(eventID)
	return c.client.Del(ctx, key).Err()
}
