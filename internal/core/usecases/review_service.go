package usecases

import (
	"context"
	"fmt"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
)

// ReviewService handles activity reviews.
type ReviewService struct {
	reviews    ports.ReviewRepository
	activities ports.ActivityRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews ports.ReviewRepository, activities ports.ActivityRepository) *ReviewService {
	return &ReviewService{reviews: reviews, activities: activities}
}

// Create adds a review. A user may review an activity once, with a
// rating between 1 and 5.
func (s *ReviewService) Create(ctx context.Context, userID, activityID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidArgument)
	}

	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		return nil, fmt.Errorf("%w: activity %s", ErrNotFound, activityID)
	}

	if existing, err := s.reviews.Find(ctx, userID, activityID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: you have already reviewed this activity", ErrConflict)
	}

	r := &domain.Review{
		UserID:     userID,
		ActivityID: activityID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, r.ID)
}

// GetByID returns a single review.
func (s *ReviewService) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: review %s", ErrNotFound, id)
	}
	return r, nil
}

// List returns a page of reviews, optionally filtered by activity or user.
func (s *ReviewService) List(ctx context.Context, filter ports.ReviewFilter, page, limit int) ([]domain.Review, int, error) {
	page, limit = clampPage(page, limit, 10)
	return s.reviews.List(ctx, filter, (page-1)*limit, limit)
}

// Update changes the rating or comment of the caller's own review.
func (s *ReviewService) Update(ctx context.Context, callerID, id string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidArgument)
	}

	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: review %s", ErrNotFound, id)
	}
	if r.UserID != callerID {
		return nil, fmt.Errorf("%w: not authorized to update this review", ErrForbidden)
	}

	r.Rating = rating
	r.Comment = comment
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, id)
}

// Delete removes a review. The author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, callerID string, callerRole domain.Role, id string) error {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: review %s", ErrNotFound, id)
	}
	if r.UserID != callerID && callerRole != domain.RoleAdmin {
		return fmt.Errorf("%w: not authorized to delete this review", ErrForbidden)
	}
	return s.reviews.Delete(ctx, id)
}
