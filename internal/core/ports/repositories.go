package ports

import (
	"context"
	"time"

	"github.com/gatherly/api/internal/core/domain"
)

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	CreatorID string
	Category  domain.Category   // zero value = all
	Time      domain.TimeFilter // zero value = all
}

// ActivityRepository persists activities.
type ActivityRepository interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error

	// List returns a page of activities matching the filter plus the total
	// match count, ordered by start date ascending.
	List(ctx context.Context, filter ActivityFilter, offset, limit int) ([]domain.Activity, int, error)

	// FindInBounds returns eligible activities (coordinates present,
	// start date at or after from) whose coordinates fall inside the
	// bounding box, ordered by start date ascending. The result is a
	// candidate superset of the search circle; limit caps the fetch.
	FindInBounds(ctx context.Context, b domain.Bounds, from time.Time, limit int) ([]domain.Activity, error)

	// CountInBounds counts eligible activities inside the bounding box.
	CountInBounds(ctx context.Context, b domain.Bounds, from time.Time) (int, error)
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	UserID     string
	ActivityID string
	Status     domain.AttendanceStatus // zero value = all
}

// AttendanceRepository persists attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, a *domain.Attendance) error
	GetByID(ctx context.Context, id string) (*domain.Attendance, error)
	Find(ctx context.Context, userID, activityID string) (*domain.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter, offset, limit int) ([]domain.Attendance, int, error)
	UpdateStatus(ctx context.Context, id string, status domain.AttendanceStatus) error
	Delete(ctx context.Context, id string) error

	// StatusBreakdown returns per-status counts for one activity.
	StatusBreakdown(ctx context.Context, activityID string) (map[string]int, error)
}

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	UserID     string
	ActivityID string
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	Find(ctx context.Context, userID, activityID string) (*domain.Review, error)
	List(ctx context.Context, filter ReviewFilter, offset, limit int) ([]domain.Review, int, error)
	Update(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id string) error
}
