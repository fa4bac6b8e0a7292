package usecases_test

import (
	"context"
	"errors"
	"time"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
)

// ---- Repository mocks ----

type mockActivityRepo struct {
	createFn        func(ctx context.Context, a *domain.Activity) error
	getByIDFn       func(ctx context.Context, id string) (*domain.Activity, error)
	updateFn        func(ctx context.Context, a *domain.Activity) error
	deleteFn        func(ctx context.Context, id string) error
	listFn          func(ctx context.Context, filter ports.ActivityFilter, offset, limit int) ([]domain.Activity, int, error)
	findInBoundsFn  func(ctx context.Context, b domain.Bounds, from time.Time, limit int) ([]domain.Activity, error)
	countInBoundsFn func(ctx context.Context, b domain.Bounds, from time.Time) (int, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Activity{ID: id}, nil
}

func (m *mockActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, a)
	}
	return nil
}

func (m *mockActivityRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockActivityRepo) List(ctx context.Context, filter ports.ActivityFilter, offset, limit int) ([]domain.Activity, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockActivityRepo) FindInBounds(ctx context.Context, b domain.Bounds, from time.Time, limit int) ([]domain.Activity, error) {
	if m.findInBoundsFn != nil {
		return m.findInBoundsFn(ctx, b, from, limit)
	}
	return nil, nil
}

func (m *mockActivityRepo) CountInBounds(ctx context.Context, b domain.Bounds, from time.Time) (int, error) {
	if m.countInBoundsFn != nil {
		return m.countInBoundsFn(ctx, b, from)
	}
	return 0, nil
}

type mockUserRepo struct {
	createFn  func(ctx context.Context, u *domain.User) error
	getByIDFn func(ctx context.Context, id string) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.User{ID: id, Role: domain.RoleUser}, nil
}

type mockAttendanceRepo struct {
	createFn          func(ctx context.Context, a *domain.Attendance) error
	getByIDFn         func(ctx context.Context, id string) (*domain.Attendance, error)
	findFn            func(ctx context.Context, userID, activityID string) (*domain.Attendance, error)
	listFn            func(ctx context.Context, filter ports.AttendanceFilter, offset, limit int) ([]domain.Attendance, int, error)
	updateStatusFn    func(ctx context.Context, id string, status domain.AttendanceStatus) error
	deleteFn          func(ctx context.Context, id string) error
	statusBreakdownFn func(ctx context.Context, activityID string) (map[string]int, error)
}

func (m *mockAttendanceRepo) Create(ctx context.Context, a *domain.Attendance) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockAttendanceRepo) GetByID(ctx context.Context, id string) (*domain.Attendance, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Attendance{ID: id}, nil
}

func (m *mockAttendanceRepo) Find(ctx context.Context, userID, activityID string) (*domain.Attendance, error) {
	if m.findFn != nil {
		return m.findFn(ctx, userID, activityID)
	}
	return nil, nil
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter ports.AttendanceFilter, offset, limit int) ([]domain.Attendance, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockAttendanceRepo) UpdateStatus(ctx context.Context, id string, status domain.AttendanceStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockAttendanceRepo) StatusBreakdown(ctx context.Context, activityID string) (map[string]int, error) {
	if m.statusBreakdownFn != nil {
		return m.statusBreakdownFn(ctx, activityID)
	}
	return map[string]int{}, nil
}

type mockReviewRepo struct {
	createFn  func(ctx context.Context, r *domain.Review) error
	getByIDFn func(ctx context.Context, id string) (*domain.Review, error)
	findFn    func(ctx context.Context, userID, activityID string) (*domain.Review, error)
	listFn    func(ctx context.Context, filter ports.ReviewFilter, offset, limit int) ([]domain.Review, int, error)
	updateFn  func(ctx context.Context, r *domain.Review) error
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Review{ID: id}, nil
}

func (m *mockReviewRepo) Find(ctx context.Context, userID, activityID string) (*domain.Review, error) {
	if m.findFn != nil {
		return m.findFn(ctx, userID, activityID)
	}
	return nil, nil
}

func (m *mockReviewRepo) List(ctx context.Context, filter ports.ReviewFilter, offset, limit int) ([]domain.Review, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockReviewRepo) Update(ctx context.Context, r *domain.Review) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, r)
	}
	return nil
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// ---- Cache and publisher mocks ----

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte, ttlSeconds int) error
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttlSeconds)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

type mockPublisher struct {
	created    []*domain.Activity
	cancelled  []*domain.Activity
	registered []*domain.Attendance
}

func (m *mockPublisher) PublishActivityCreated(ctx context.Context, a *domain.Activity) error {
	m.created = append(m.created, a)
	return nil
}

func (m *mockPublisher) PublishActivityCancelled(ctx context.Context, a *domain.Activity) error {
	m.cancelled = append(m.cancelled, a)
	return nil
}

func (m *mockPublisher) PublishAttendanceRegistered(ctx context.Context, att *domain.Attendance) error {
	m.registered = append(m.registered, att)
	return nil
}
