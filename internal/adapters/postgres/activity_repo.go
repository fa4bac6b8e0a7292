package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
)

// ActivityRepo implements ports.ActivityRepository with pgx.
type ActivityRepo struct {
	db *DB
}

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(db *DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

const activityColumns = `
	a.id, a.title, a.description, a.location, COALESCE(a.map_url, ''),
	a.latitude, a.longitude, a.start_date, a.end_date, a.status, a.category,
	a.price::float8, a.capacity, a.creator_id, a.created_at,
	u.id, u.name, u.email, COALESCE(u.profile_image, '')`

func scanActivity(row interface{ Scan(...any) error }) (*domain.Activity, error) {
	var a domain.Activity
	var creator domain.UserSummary
	if err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Location, &a.MapURL,
		&a.Latitude, &a.Longitude, &a.StartDate, &a.EndDate, &a.Status, &a.Category,
		&a.Price, &a.Capacity, &a.CreatorID, &a.CreatedAt,
		&creator.ID, &creator.Name, &creator.Email, &creator.ProfileImage,
	); err != nil {
		return nil, err
	}
	a.Creator = &creator
	return &a, nil
}

// Create inserts an activity and fills the generated id and timestamp.
func (r *ActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO activities (title, description, location, map_url, latitude, longitude,
		                        start_date, end_date, status, category, price, capacity, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`, a.Title, a.Description, a.Location, a.MapURL, a.Latitude, a.Longitude,
		a.StartDate, a.EndDate, a.Status, a.Category, a.Price, a.Capacity, a.CreatorID,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetByID returns an activity with its creator expanded.
func (r *ActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+activityColumns+`
		FROM activities a
		JOIN users u ON u.id = a.creator_id
		WHERE a.id = $1
	`, id)
	return scanActivity(row)
}

// Update rewrites the mutable activity fields.
func (r *ActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE activities
		SET title = $2, description = $3, location = $4, map_url = $5,
		    latitude = $6, longitude = $7, start_date = $8, end_date = $9,
		    status = $10, category = $11, price = $12, capacity = $13
		WHERE id = $1
	`, a.ID, a.Title, a.Description, a.Location, a.MapURL,
		a.Latitude, a.Longitude, a.StartDate, a.EndDate,
		a.Status, a.Category, a.Price, a.Capacity)
	return err
}

// Delete removes an activity.
func (r *ActivityRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	return err
}

// List returns a page of activities matching the filter plus the total count.
func (r *ActivityRepo) List(ctx context.Context, filter ports.ActivityFilter, offset, limit int) ([]domain.Activity, int, error) {
	where, args := buildActivityWhere(filter)

	var total int
	countSQL := `SELECT count(*) FROM activities a` + where
	if err := r.db.Pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+activityColumns+`
		FROM activities a
		JOIN users u ON u.id = a.creator_id`+where+`
		ORDER BY a.start_date
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, *a)
	}
	return activities, total, rows.Err()
}

func buildActivityWhere(filter ports.ActivityFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.CreatorID != "" {
		args = append(args, filter.CreatorID)
		conds = append(conds, fmt.Sprintf("a.creator_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("a.category = $%d", len(args)))
	}
	switch filter.Time {
	case domain.FilterUpcoming:
		conds = append(conds, "a.start_date >= now()")
	case domain.FilterPast:
		conds = append(conds, "a.end_date < now()")
	case domain.FilterOngoing:
		conds = append(conds, "a.start_date <= now() AND a.end_date >= now()")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// FindInBounds returns eligible activities inside the bounding box via the
// btree indexes on latitude and longitude. Eligibility means coordinates are
// present, the activity is not cancelled, and it has not started yet at the
// reference time.
func (r *ActivityRepo) FindInBounds(ctx context.Context, b domain.Bounds, from time.Time, limit int) ([]domain.Activity, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+activityColumns+`
		FROM activities a
		JOIN users u ON u.id = a.creator_id
		WHERE a.latitude IS NOT NULL AND a.longitude IS NOT NULL
		  AND a.status <> 'CANCELLED'
		  AND a.start_date >= $1
		  AND a.latitude BETWEEN $2 AND $3
		  AND a.longitude BETWEEN $4 AND $5
		ORDER BY a.start_date
		LIMIT $6
	`, from, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// CountInBounds counts eligible activities inside the bounding box.
func (r *ActivityRepo) CountInBounds(ctx context.Context, b domain.Bounds, from time.Time) (int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*)
		FROM activities a
		WHERE a.latitude IS NOT NULL AND a.longitude IS NOT NULL
		  AND a.status <> 'CANCELLED'
		  AND a.start_date >= $1
		  AND a.latitude BETWEEN $2 AND $3
		  AND a.longitude BETWEEN $4 AND $5
	`, from, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng).Scan(&total)
	return total, err
}
