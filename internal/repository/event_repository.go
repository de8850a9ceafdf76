package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-event-reservation/internal/model"
	apperrors "go-event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	SetMaxCapacity(ctx context.Context, id int, newMax int) (*model.Event, error)

	// Transaction methods
	TryCommitSpot(ctx context.Context, tx pgx.Tx, id int) (bool, error)
	ReleaseSpot(ctx context.Context, tx pgx.Tx, id int) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (event_id, name, description, max_capacity, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, event_id, name, description, max_capacity,
			confirmed_count, active, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		event.EventID, event.Name, event.Description, event.MaxCapacity, event.Active,
	).Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Description,
		&event.MaxCapacity,
		&event.ConfirmedCount,
		&event.Active,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT id, event_id, name, description, max_capacity,
				confirmed_count, active, created_at, updated_at
		FROM events
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)

	for rows.Next() {
		var event model.Event
		err := rows.Scan(
			&event.ID,
			&event.EventID,
			&event.Name,
			&event.Description,
			&event.MaxCapacity,
			&event.ConfirmedCount,
			&event.Active,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `
		SELECT id, event_id, name, description, max_capacity,
				confirmed_count, active, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var event model.Event
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Description,
		&event.MaxCapacity,
		&event.ConfirmedCount,
		&event.Active,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT id, event_id, name, description, max_capacity,
				confirmed_count, active, created_at, updated_at
		FROM events
		WHERE event_id = $1
	`

	var event model.Event
	err := r.pool.QueryRow(ctx, query, eventID).Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Description,
		&event.MaxCapacity,
		&event.ConfirmedCount,
		&event.Active,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}

	if params.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *params.Description)
		argPos++
	}

	if params.Active != nil {
		sets = append(sets, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *params.Active)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
        RETURNING id, event_id, name, description, max_capacity,
			confirmed_count, active, created_at, updated_at
	`, strings.Join(sets, ", "), argPos)

	var event model.Event

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Description,
		&event.MaxCapacity,
		&event.ConfirmedCount,
		&event.Active,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

// SetMaxCapacity 調整活動容量上限
// 條件更新保證新上限不會低於目前已確認數；0 列受影響時再查一次，
// 區分活動不存在與容量低於已確認數兩種失敗
func (r *EventRepositoryImpl) SetMaxCapacity(ctx context.Context, id int, newMax int) (*model.Event, error) {
	if newMax < 1 {
		return nil, apperrors.ErrInvalidInput
	}

	query := `
		UPDATE events
		SET max_capacity = $1, updated_at = $2
		WHERE id = $3 AND confirmed_count <= $1
		RETURNING id, event_id, name, description, max_capacity,
			confirmed_count, active, created_at, updated_at
	`

	var event model.Event
	err := r.pool.QueryRow(ctx, query, newMax, time.Now().UTC(), id).Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Description,
		&event.MaxCapacity,
		&event.ConfirmedCount,
		&event.Active,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == nil {
		return &event, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, apperrors.ErrCapacityBelowCommitted
}

// TryCommitSpot 原子地提交一個名額
// 單一條件更新就是整個帳本：活動停用、額滿或不存在時 0 列受影響，回傳 false
// 不同活動更新不同列，彼此不會互相阻塞
func (r *EventRepositoryImpl) TryCommitSpot(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	query := `
		UPDATE events
		SET confirmed_count = confirmed_count + 1, updated_at = $1
		WHERE id = $2 AND active AND confirmed_count < max_capacity
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

// ReleaseSpot 原子地釋放一個名額，計數已是 0 時不動作也不報錯
func (r *EventRepositoryImpl) ReleaseSpot(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE events
		SET confirmed_count = confirmed_count - 1, updated_at = $1
		WHERE id = $2 AND confirmed_count > 0
	`

	_, err := tx.Exec(ctx, query, time.Now().UTC(), id)
	return err
}
