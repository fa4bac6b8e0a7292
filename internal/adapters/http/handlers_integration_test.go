//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/api/internal/adapters/http"
	"github.com/gatherly/api/internal/adapters/postgres"
	"github.com/gatherly/api/internal/core/usecases"
	"github.com/gatherly/api/internal/pkg/config"
)

// setupTestDB connects to the test database.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("gatherly-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	db := &postgres.DB{Pool: pool}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	return db
}

// setupTestDeps creates dependencies with real repos, no cache or bus.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	activityRepo := postgres.NewActivityRepo(db)
	userRepo := postgres.NewUserRepo(db)
	attendanceRepo := postgres.NewAttendanceRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)

	return &http.Dependencies{
		Activities: usecases.NewActivityService(activityRepo, userRepo, nil, nil),
		Attendance: usecases.NewAttendanceService(attendanceRepo, activityRepo, userRepo, nil),
		Reviews:    usecases.NewReviewService(reviewRepo, activityRepo),
		Users:      usecases.NewUserService(userRepo),
		DB:         db,
	}
}

// seedTestUser inserts a test user and returns its UUID.
func seedTestUser(t *testing.T, db *postgres.DB, email string) string {
	ctx := context.Background()
	var id string
	if err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, role)
		VALUES ('Integration User', $1, 'USER')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email).Scan(&id); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// seedTestActivity inserts an upcoming activity at the given point.
func seedTestActivity(t *testing.T, db *postgres.DB, creatorID, title string, lat, lng float64) string {
	ctx := context.Background()
	var id string
	if err := db.Pool.QueryRow(ctx, `
		INSERT INTO activities (title, description, location, latitude, longitude,
		                        start_date, end_date, status, category, price, capacity, creator_id)
		VALUES ($1, 'integration test activity', 'Test Hall', $2, $3,
		        now() + interval '1 day', now() + interval '1 day 2 hours',
		        'UPCOMING', 'SPORTS', 0, 20, $4)
		RETURNING id
	`, title, lat, lng, creatorID).Scan(&id); err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return id
}

// TestNearby_Integration tests the proximity search against a real database.
func TestNearby_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	stamp := time.Now().Format("20060102150405")
	userID := seedTestUser(t, db, "integ-"+stamp+"@example.com")
	// Riyadh city center, plus a second activity ~11 km north.
	seedTestActivity(t, db, userID, "integ near "+stamp, 24.7136, 46.6753)
	seedTestActivity(t, db, userID, "integ far "+stamp, 24.8136, 46.6753)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/activities/nearby?lat=24.7136&lng=46.6753&maxDistance=5", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var data struct {
		Activities []struct {
			Title    string  `json:"title"`
			Distance float64 `json:"distance"`
		} `json:"activities"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	foundNear, foundFar := false, false
	for _, a := range data.Activities {
		if a.Distance > 5 {
			t.Errorf("activity %q outside the 5 km radius: %v", a.Title, a.Distance)
		}
		if a.Title == "integ near "+stamp {
			foundNear = true
		}
		if a.Title == "integ far "+stamp {
			foundFar = true
		}
	}
	if !foundNear {
		t.Error("expected the nearby activity in the results")
	}
	if foundFar {
		t.Error("the distant activity should be outside the 5 km radius")
	}
}

// TestActivityLifecycle_Integration creates, reads, and cancels an activity
// over the HTTP surface with a real database behind it.
func TestActivityLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	stamp := time.Now().Format("20060102150405")
	userID := seedTestUser(t, db, "integ-lc-"+stamp+"@example.com")

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	start := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(26 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{
		"title": "integ lifecycle %s",
		"description": "integration test",
		"location": "Test Hall",
		"latitude": 24.7136,
		"longitude": 46.6753,
		"start_date": %q,
		"end_date": %q,
		"category": "MUSIC",
		"capacity": 10
	}`, stamp, start, end)

	req := httptest.NewRequest("POST", "/v1/activities", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created activity: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a created activity ID")
	}

	req = httptest.NewRequest("GET", "/v1/activities/"+created.ID, nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("DELETE", "/v1/activities/"+created.ID, nil)
	req.Header.Set("X-User-ID", userID)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("cancel request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
