package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
)

// AttendanceService handles registration of users at activities.
type AttendanceService struct {
	attendance ports.AttendanceRepository
	activities ports.ActivityRepository
	users      ports.UserRepository
	events     ports.EventPublisher
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendance ports.AttendanceRepository, activities ports.ActivityRepository, users ports.UserRepository, events ports.EventPublisher) *AttendanceService {
	return &AttendanceService{attendance: attendance, activities: activities, users: users, events: events}
}

// Register records a user's attendance at an activity. A user can register
// at most once per activity.
func (s *AttendanceService) Register(ctx context.Context, userID, activityID string, status domain.AttendanceStatus) (*domain.Attendance, error) {
	if status == "" {
		status = domain.AttendancePresent
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid attendance status %q", ErrInvalidArgument, status)
	}

	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		return nil, fmt.Errorf("%w: activity %s", ErrNotFound, activityID)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if existing, err := s.attendance.Find(ctx, userID, activityID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: user already registered for this activity", ErrConflict)
	}

	att := &domain.Attendance{
		UserID:     userID,
		ActivityID: activityID,
		Status:     status,
	}
	if err := s.attendance.Create(ctx, att); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishAttendanceRegistered(ctx, att); err != nil {
			slog.Warn("publish attendance.registered failed", "attendance_id", att.ID, "error", err)
		}
	}

	return s.attendance.GetByID(ctx, att.ID)
}

// ListForUser returns a page of a user's attendance history.
func (s *AttendanceService) ListForUser(ctx context.Context, userID string, status domain.AttendanceStatus, activityID string, page, limit int) ([]domain.Attendance, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid attendance status %q", ErrInvalidArgument, status)
	}
	page, limit = clampPage(page, limit, 10)

	filter := ports.AttendanceFilter{UserID: userID, ActivityID: activityID, Status: status}
	return s.attendance.List(ctx, filter, (page-1)*limit, limit)
}

// ActivityAttendance bundles one activity's attendance page with its stats.
type ActivityAttendance struct {
	Records []domain.Attendance
	Total   int
	Stats   domain.AttendanceStats
}

// ListForActivity returns a page of an activity's attendance plus statistics.
func (s *AttendanceService) ListForActivity(ctx context.Context, activityID string, status domain.AttendanceStatus, page, limit int) (*ActivityAttendance, *domain.Activity, error) {
	if status != "" && !status.Valid() {
		return nil, nil, fmt.Errorf("%w: invalid attendance status %q", ErrInvalidArgument, status)
	}
	page, limit = clampPage(page, limit, 50)

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: activity %s", ErrNotFound, activityID)
	}

	filter := ports.AttendanceFilter{ActivityID: activityID, Status: status}
	records, total, err := s.attendance.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	breakdown, err := s.attendance.StatusBreakdown(ctx, activityID)
	if err != nil {
		return nil, nil, err
	}

	stats := domain.AttendanceStats{Total: total, ByStatus: breakdown}
	if activity.Capacity > 0 {
		stats.AttendanceRate = float64(total) / float64(activity.Capacity) * 100
	}

	return &ActivityAttendance{Records: records, Total: total, Stats: stats}, activity, nil
}

// UpdateStatus changes the status of an attendance record.
func (s *AttendanceService) UpdateStatus(ctx context.Context, id string, status domain.AttendanceStatus) (*domain.Attendance, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid attendance status %q", ErrInvalidArgument, status)
	}
	if _, err := s.attendance.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("%w: attendance %s", ErrNotFound, id)
	}
	if err := s.attendance.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.attendance.GetByID(ctx, id)
}

// Remove deletes an attendance record. The registered user or an admin may
// remove it.
func (s *AttendanceService) Remove(ctx context.Context, callerID string, callerRole domain.Role, id string) error {
	att, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: attendance %s", ErrNotFound, id)
	}
	if att.UserID != callerID && callerRole != domain.RoleAdmin {
		return fmt.Errorf("%w: not authorized to remove this attendance", ErrForbidden)
	}
	return s.attendance.Delete(ctx, id)
}

func clampPage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}
