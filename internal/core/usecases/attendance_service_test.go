package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
	"github.com/gatherly/api/internal/core/usecases"
)

func newAttendanceService(att *mockAttendanceRepo, act *mockActivityRepo, users *mockUserRepo, events *mockPublisher) *usecases.AttendanceService {
	var e ports.EventPublisher
	if events != nil {
		e = events
	}
	return usecases.NewAttendanceService(att, act, users, e)
}

func TestRegister_DefaultsToPresent(t *testing.T) {
	var created *domain.Attendance
	att := &mockAttendanceRepo{
		createFn: func(ctx context.Context, a *domain.Attendance) error {
			a.ID = "att-1"
			created = a
			return nil
		},
		getByIDFn: func(ctx context.Context, id string) (*domain.Attendance, error) {
			return created, nil
		},
	}
	events := &mockPublisher{}
	svc := newAttendanceService(att, &mockActivityRepo{}, &mockUserRepo{}, events)

	rec, err := svc.Register(context.Background(), "u1", "a1", "")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != domain.AttendancePresent {
		t.Errorf("expected default status present, got %s", rec.Status)
	}
	if len(events.registered) != 1 {
		t.Errorf("expected one attendance.registered event, got %d", len(events.registered))
	}
}

func TestRegister_RejectsInvalidStatus(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{}, &mockActivityRepo{}, &mockUserRepo{}, nil)

	_, err := svc.Register(context.Background(), "u1", "a1", "sleeping")
	if !errors.Is(err, usecases.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRegister_UnknownActivity(t *testing.T) {
	act := &mockActivityRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Activity, error) {
			return nil, errors.New("no rows")
		},
	}
	svc := newAttendanceService(&mockAttendanceRepo{}, act, &mockUserRepo{}, nil)

	_, err := svc.Register(context.Background(), "u1", "ghost", "present")
	if !errors.Is(err, usecases.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegister_DuplicateConflicts(t *testing.T) {
	att := &mockAttendanceRepo{
		findFn: func(ctx context.Context, userID, activityID string) (*domain.Attendance, error) {
			return &domain.Attendance{ID: "existing", UserID: userID, ActivityID: activityID}, nil
		},
		createFn: func(ctx context.Context, a *domain.Attendance) error {
			t.Error("duplicate registration should not reach the repository")
			return nil
		},
	}
	svc := newAttendanceService(att, &mockActivityRepo{}, &mockUserRepo{}, nil)

	_, err := svc.Register(context.Background(), "u1", "a1", "present")
	if !errors.Is(err, usecases.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestListForActivity_ComputesStats(t *testing.T) {
	act := &mockActivityRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Activity, error) {
			return &domain.Activity{ID: id, Title: "Padel night", Capacity: 20}, nil
		},
	}
	att := &mockAttendanceRepo{
		listFn: func(ctx context.Context, filter ports.AttendanceFilter, offset, limit int) ([]domain.Attendance, int, error) {
			return []domain.Attendance{{ID: "r1"}, {ID: "r2"}}, 5, nil
		},
		statusBreakdownFn: func(ctx context.Context, activityID string) (map[string]int, error) {
			return map[string]int{"present": 4, "late": 1}, nil
		},
	}
	svc := newAttendanceService(att, act, &mockUserRepo{}, nil)

	res, activity, err := svc.ListForActivity(context.Background(), "a1", "", 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if activity.Title != "Padel night" {
		t.Errorf("expected the activity returned, got %+v", activity)
	}
	if res.Stats.Total != 5 {
		t.Errorf("expected total 5, got %d", res.Stats.Total)
	}
	if res.Stats.AttendanceRate != 25.0 {
		t.Errorf("expected 25%% of capacity, got %v", res.Stats.AttendanceRate)
	}
	if res.Stats.ByStatus["present"] != 4 || res.Stats.ByStatus["late"] != 1 {
		t.Errorf("unexpected breakdown: %+v", res.Stats.ByStatus)
	}
}

func TestUpdateStatus_UnknownRecord(t *testing.T) {
	att := &mockAttendanceRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Attendance, error) {
			return nil, errors.New("no rows")
		},
	}
	svc := newAttendanceService(att, &mockActivityRepo{}, &mockUserRepo{}, nil)

	_, err := svc.UpdateStatus(context.Background(), "ghost", domain.AttendanceLate)
	if !errors.Is(err, usecases.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove_OwnerOrAdmin(t *testing.T) {
	var deleted string
	att := &mockAttendanceRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Attendance, error) {
			return &domain.Attendance{ID: id, UserID: "owner"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newAttendanceService(att, &mockActivityRepo{}, &mockUserRepo{}, nil)

	if err := svc.Remove(context.Background(), "intruder", domain.RoleUser, "r1"); !errors.Is(err, usecases.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Remove(context.Background(), "owner", domain.RoleUser, "r1"); err != nil {
		t.Fatalf("expected the owner to remove their record, got %v", err)
	}
	if deleted != "r1" {
		t.Errorf("expected r1 deleted, got %q", deleted)
	}
	if err := svc.Remove(context.Background(), "someone-else", domain.RoleAdmin, "r2"); err != nil {
		t.Fatalf("expected admins to remove any record, got %v", err)
	}
}
