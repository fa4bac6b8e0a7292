package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/usecases"
)

func TestReviewCreate_RatingBounds(t *testing.T) {
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, r *domain.Review) error {
			t.Error("invalid ratings should not reach the repository")
			return nil
		},
	}
	svc := usecases.NewReviewService(repo, &mockActivityRepo{})

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(context.Background(), "u1", "a1", rating, "")
		if !errors.Is(err, usecases.ErrInvalidArgument) {
			t.Fatalf("rating %d: expected ErrInvalidArgument, got %v", rating, err)
		}
	}
}

func TestReviewCreate_UnknownActivity(t *testing.T) {
	act := &mockActivityRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Activity, error) {
			return nil, errors.New("no rows")
		},
	}
	svc := usecases.NewReviewService(&mockReviewRepo{}, act)

	_, err := svc.Create(context.Background(), "u1", "ghost", 4, "great")
	if !errors.Is(err, usecases.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReviewCreate_OnePerUserAndActivity(t *testing.T) {
	repo := &mockReviewRepo{
		findFn: func(ctx context.Context, userID, activityID string) (*domain.Review, error) {
			return &domain.Review{ID: "existing"}, nil
		},
	}
	svc := usecases.NewReviewService(repo, &mockActivityRepo{})

	_, err := svc.Create(context.Background(), "u1", "a1", 5, "again")
	if !errors.Is(err, usecases.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestReviewCreate_Persists(t *testing.T) {
	var created *domain.Review
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, r *domain.Review) error {
			r.ID = "rev-1"
			created = r
			return nil
		},
		getByIDFn: func(ctx context.Context, id string) (*domain.Review, error) {
			return created, nil
		},
	}
	svc := usecases.NewReviewService(repo, &mockActivityRepo{})

	r, err := svc.Create(context.Background(), "u1", "a1", 4, "good fun")
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "rev-1" || r.Rating != 4 || r.Comment != "good fun" {
		t.Errorf("unexpected review: %+v", r)
	}
}

func TestReviewUpdate_OwnerOnly(t *testing.T) {
	repo := &mockReviewRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Review, error) {
			return &domain.Review{ID: id, UserID: "owner", Rating: 3}, nil
		},
	}
	svc := usecases.NewReviewService(repo, &mockActivityRepo{})

	_, err := svc.Update(context.Background(), "intruder", "rev-1", 5, "mine now")
	if !errors.Is(err, usecases.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestReviewDelete_AuthorOrAdmin(t *testing.T) {
	var deleted string
	repo := &mockReviewRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Review, error) {
			return &domain.Review{ID: id, UserID: "author"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := usecases.NewReviewService(repo, &mockActivityRepo{})

	if err := svc.Delete(context.Background(), "intruder", domain.RoleUser, "rev-1"); !errors.Is(err, usecases.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), "author", domain.RoleUser, "rev-1"); err != nil {
		t.Fatalf("expected the author to delete their review, got %v", err)
	}
	if deleted != "rev-1" {
		t.Errorf("expected rev-1 deleted, got %q", deleted)
	}
	if err := svc.Delete(context.Background(), "moderator", domain.RoleAdmin, "rev-2"); err != nil {
		t.Fatalf("expected admins to delete any review, got %v", err)
	}
}
