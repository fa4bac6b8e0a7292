package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
)

// ReviewRepo implements ports.ReviewRepository with pgx.
type ReviewRepo struct {
	db *DB
}

// NewReviewRepo creates a new ReviewRepo.
func NewReviewRepo(db *DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

const reviewColumns = `
	r.id, r.user_id, r.activity_id, r.rating, COALESCE(r.comment, ''),
	r.created_at, r.updated_at,
	u.id, u.name, u.email, COALESCE(u.profile_image, '')`

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	var rev domain.Review
	var user domain.UserSummary
	if err := row.Scan(
		&rev.ID, &rev.UserID, &rev.ActivityID, &rev.Rating, &rev.Comment,
		&rev.CreatedAt, &rev.UpdatedAt,
		&user.ID, &user.Name, &user.Email, &user.ProfileImage,
	); err != nil {
		return nil, err
	}
	rev.User = &user
	return &rev, nil
}

// Create inserts a review. The unique constraint on (user_id, activity_id)
// backs the one-review rule.
func (r *ReviewRepo) Create(ctx context.Context, rev *domain.Review) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO reviews (user_id, activity_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, rev.UserID, rev.ActivityID, rev.Rating, rev.Comment).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)
}

// GetByID returns a review with its author expanded.
func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`, id)
	return scanReview(row)
}

// Find looks up the review for one (user, activity) pair. Returns
// (nil, nil) when none exists.
func (r *ReviewRepo) Find(ctx context.Context, userID, activityID string) (*domain.Review, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1 AND r.activity_id = $2
	`, userID, activityID)
	rev, err := scanReview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rev, err
}

// List returns a page of reviews matching the filter plus the total count,
// newest first.
func (r *ReviewRepo) List(ctx context.Context, filter ports.ReviewFilter, offset, limit int) ([]domain.Review, int, error) {
	var conds []string
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if filter.ActivityID != "" {
		args = append(args, filter.ActivityID)
		conds = append(conds, fmt.Sprintf("r.activity_id = $%d", len(args)))
	}

	var where string
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM reviews r`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews r
		JOIN users u ON u.id = r.user_id`+where+`
		ORDER BY r.created_at DESC
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, *rev)
	}
	return reviews, total, rows.Err()
}

// Update rewrites the rating and comment.
func (r *ReviewRepo) Update(ctx context.Context, rev *domain.Review) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE reviews SET rating = $2, comment = $3, updated_at = now() WHERE id = $1
	`, rev.ID, rev.Rating, rev.Comment)
	return err
}

// Delete removes a review.
func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return err
}
