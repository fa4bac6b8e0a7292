package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/api/internal/pkg/config"
)

// Seed file types. Activities reference their creator by email so the
// file stays portable across databases.

type SeedFile struct {
	Users      []SeedUser     `json:"users"`
	Activities []SeedActivity `json:"activities"`
}

type SeedUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image,omitempty"`
	Role         string `json:"role,omitempty"`
}

type SeedActivity struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	MapURL       string    `json:"map_url,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       string    `json:"status,omitempty"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Capacity     int       `json:"capacity"`
	CreatorEmail string    `json:"creator_email"`
}

func main() {
	cfg, err := config.Load("gatherly-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	seedPath := "seed.json"
	if len(os.Args) > 1 {
		seedPath = os.Args[1]
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		log.Fatalf("read seed: %v", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatalf("parse seed: %v", err)
	}

	// Users first; remember ids by email for the activity FKs.
	userIDs := make(map[string]string, len(seed.Users))
	for _, u := range seed.Users {
		role := u.Role
		if role == "" {
			role = "USER"
		}
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO users (name, email, profile_image, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, u.Name, u.Email, u.ProfileImage, role).Scan(&id)
		if err != nil {
			log.Fatalf("insert user %s: %v", u.Email, err)
		}
		userIDs[u.Email] = id
	}
	log.Printf("seeded %d users", len(seed.Users))

	var inserted int
	for _, a := range seed.Activities {
		creatorID, ok := userIDs[a.CreatorEmail]
		if !ok {
			log.Fatalf("activity %q references unknown creator %s", a.Title, a.CreatorEmail)
		}
		status := a.Status
		if status == "" {
			status = "UPCOMING"
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO activities (title, description, location, map_url, latitude, longitude,
			                        start_date, end_date, status, category, price, capacity, creator_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, a.Title, a.Description, a.Location, a.MapURL, a.Latitude, a.Longitude,
			a.StartDate, a.EndDate, status, a.Category, a.Price, a.Capacity, creatorID)
		if err != nil {
			log.Fatalf("insert activity %q: %v", a.Title, err)
		}
		inserted++
	}

	log.Printf("seeded %d activities", inserted)
}
