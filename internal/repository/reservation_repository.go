package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-event-reservation/internal/model"
	apperrors "go-event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres unique_violation
const pgUniqueViolation = "23505"

type ReservationRepository interface {
	List(ctx context.Context) ([]*model.Reservation, error)
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*model.Reservation, error)
	FindByUserID(ctx context.Context, userID int) ([]*model.Reservation, error)
	FindByEventID(ctx context.Context, eventID int) ([]*model.Reservation, error)
	FindByEventAndUser(ctx context.Context, eventID int, userID int) (*model.Reservation, error)
	CountConfirmedByEventID(ctx context.Context, eventID int) (int, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, reservation *model.Reservation) (*model.Reservation, error)
	FindByReservationIDForUpdate(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.ReservationStatus) (*model.Reservation, error)
}

type ReservationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &ReservationRepositoryImpl{
		pool: pool,
	}
}

func (r *ReservationRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, reservation *model.Reservation) (*model.Reservation, error) {
	query := `
		INSERT INTO reservations (reservation_id, event_id, user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, reservation_id, event_id, user_id, status, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		reservation.ReservationID, reservation.EventID, reservation.UserID, reservation.Status,
	).Scan(
		&reservation.ID,
		&reservation.ReservationID,
		&reservation.EventID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err != nil {
		// (event_id, user_id) 唯一索引：同一對同時插入時只有一個贏家
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.ErrDuplicateReservation
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return reservation, nil
}

func (r *ReservationRepositoryImpl) List(ctx context.Context) ([]*model.Reservation, error) {
	query := `
		SELECT id, reservation_id, event_id, user_id, status, created_at, updated_at
		FROM reservations
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *ReservationRepositoryImpl) FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT id, reservation_id, event_id, user_id, status, created_at, updated_at
		FROM reservations
		WHERE reservation_id = $1
	`

	var reservation model.Reservation
	err := r.pool.QueryRow(ctx, query, reservationID).Scan(
		&reservation.ID,
		&reservation.ReservationID,
		&reservation.EventID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}

	return &reservation, nil
}

func (r *ReservationRepositoryImpl) FindByUserID(ctx context.Context, userID int) ([]*model.Reservation, error) {
	query := `
		SELECT id, reservation_id, event_id, user_id, status, created_at, updated_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *ReservationRepositoryImpl) FindByEventID(ctx context.Context, eventID int) ([]*model.Reservation, error) {
	query := `
		SELECT id, reservation_id, event_id, user_id, status, created_at, updated_at
		FROM reservations
		WHERE event_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *ReservationRepositoryImpl) FindByEventAndUser(ctx context.Context, eventID int, userID int) (*model.Reservation, error) {
	query := `
		SELECT id, reservation_id, event_id, user_id, status, created_at, updated_at
		FROM reservations
		WHERE event_id = $1 AND user_id = $2
	`

	var reservation model.Reservation
	err := r.pool.QueryRow(ctx, query, eventID, userID).Scan(
		&reservation.ID,
		&reservation.ReservationID,
		&reservation.EventID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}

	return &reservation, nil
}

// CountConfirmedByEventID 從預約列重新計數，僅供測試與對帳使用
// 熱路徑一律讀 events.confirmed_count，不在這裡數列
func (r *ReservationRepositoryImpl) CountConfirmedByEventID(ctx context.Context, eventID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE event_id = $1 AND status = $2
	`

	var count int
	err := r.pool.QueryRow(ctx, query, eventID, model.ReservationStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// FindByReservationIDForUpdate 鎖定預約列直到交易結束，供狀態轉換使用
func (r *ReservationRepositoryImpl) FindByReservationIDForUpdate(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT id, reservation_id, event_id, user_id, status, created_at, updated_at
		FROM reservations
		WHERE reservation_id = $1
		FOR UPDATE
	`

	var reservation model.Reservation
	err := tx.QueryRow(ctx, query, reservationID).Scan(
		&reservation.ID,
		&reservation.ReservationID,
		&reservation.EventID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}

	return &reservation, nil
}

func (r *ReservationRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.ReservationStatus) (*model.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, reservation_id, event_id, user_id, status, created_at, updated_at
	`

	var reservation model.Reservation
	err := tx.QueryRow(ctx, query, status, time.Now().UTC(), id).Scan(
		&reservation.ID,
		&reservation.ReservationID,
		&reservation.EventID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	return &reservation, nil
}

func scanReservations(rows pgx.Rows) ([]*model.Reservation, error) {
	reservations := make([]*model.Reservation, 0)

	for rows.Next() {
		var reservation model.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.ReservationID,
			&reservation.EventID,
			&reservation.UserID,
			&reservation.Status,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, &reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}
