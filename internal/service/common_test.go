package service

import (
	"context"
	"log"
	"os"
	"testing"

	"go-event-reservation/config"
	"go-event-reservation/internal/database"
	"go-event-reservation/internal/model"
	"go-event-reservation/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// testDB 是測試用的資料庫連接池
var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	cfg := config.LoadTestConfig()

	var err error
	testDB, err = database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Printf("Test database unavailable, skipping service tests: %v", err)
		os.Exit(0)
	}

	if err := testDB.Ping(context.Background()); err != nil {
		log.Printf("Test database unreachable, skipping service tests: %v", err)
		os.Exit(0)
	}

	if err := database.RunMigrations(testDB, "../../migrations"); err != nil {
		log.Fatalf("Failed to run migrations on test database: %v", err)
	}

	log.Println("Test database connected successfully")
	log.Println("Running service tests...")

	code := m.Run()
	testDB.Close()
	log.Println("Test database closed")

	os.Exit(code)
}

func setupTestWithTruncate(t *testing.T) func() {
	t.Helper()
	ctx := context.Background()

	_, err := testDB.Exec(ctx, "TRUNCATE reservations, events, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	return func() {
	}
}

func getTestDB() *pgxpool.Pool {
	if testDB == nil {
		panic("testDB is not initialized. Make sure TestMain has run.")
	}
	return testDB
}

// newTestReservationService 建立只接資料庫的 service，快取與隊列留空
func newTestReservationService() ReservationService {
	return NewReservationService(
		getTestDB(),
		repository.NewReservationRepository(getTestDB()),
		repository.NewEventRepository(getTestDB()),
		nil,
		nil,
		nil,
	)
}

// createTestEvent 輔助函數：創建測試用的 event，回傳 model
func createTestEvent(t *testing.T, name string, maxCapacity int) *model.Event {
	t.Helper()
	return createTestEventWithState(t, name, maxCapacity, 0, true)
}

func createTestEventWithState(t *testing.T, name string, maxCapacity, confirmedCount int, active bool) *model.Event {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO events (event_id, name, max_capacity, confirmed_count, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, event_id
	`

	event := &model.Event{
		Name:           name,
		MaxCapacity:    maxCapacity,
		ConfirmedCount: confirmedCount,
		Active:         active,
	}
	err := testDB.QueryRow(ctx, query, uuid.New(), name, maxCapacity, confirmedCount, active).Scan(&event.ID, &event.EventID)
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	return event
}

// createTestUser 輔助函數：創建測試用的 user
func createTestUser(t *testing.T, name, email string) int {
	t.Helper()
	ctx := context.Background()

	var id int
	err := testDB.QueryRow(ctx,
		"INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id",
		name, email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// getConfirmedCount 輔助函數：直接讀 events.confirmed_count
func getConfirmedCount(t *testing.T, eventID int) int {
	t.Helper()
	ctx := context.Background()

	var count int
	err := testDB.QueryRow(ctx, "SELECT confirmed_count FROM events WHERE id = $1", eventID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to read confirmed_count: %v", err)
	}

	return count
}
