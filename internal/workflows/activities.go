package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
)

// Attendee is one registration affected by a cancellation.
type Attendee struct {
	AttendanceID string
	UserID       string
	PrevStatus   string
}

// CancellationActivities holds the activity implementations for the
// cancellation workflow.
type CancellationActivities struct {
	Attendance ports.AttendanceRepository
	Notifier   ports.NotificationService
}

// attendeePageSize bounds one List call; cancellation fan-out walks pages.
const attendeePageSize = 200

// ListAttendees returns every registration for the activity.
func (a *CancellationActivities) ListAttendees(ctx context.Context, activityID string) ([]Attendee, error) {
	var attendees []Attendee
	filter := ports.AttendanceFilter{ActivityID: activityID}

	for offset := 0; ; offset += attendeePageSize {
		records, total, err := a.Attendance.List(ctx, filter, offset, attendeePageSize)
		if err != nil {
			return nil, fmt.Errorf("list attendance for %s: %w", activityID, err)
		}
		for _, rec := range records {
			attendees = append(attendees, Attendee{
				AttendanceID: rec.ID,
				UserID:       rec.UserID,
				PrevStatus:   string(rec.Status),
			})
		}
		if offset+attendeePageSize >= total || len(records) == 0 {
			break
		}
	}

	return attendees, nil
}

// MarkAttendanceExcused flips one registration to excused.
func (a *CancellationActivities) MarkAttendanceExcused(ctx context.Context, attendanceID string) error {
	if err := a.Attendance.UpdateStatus(ctx, attendanceID, domain.AttendanceExcused); err != nil {
		return fmt.Errorf("excuse attendance %s: %w", attendanceID, err)
	}
	return nil
}

// NotifyAttendee sends a cancellation push to the user.
func (a *CancellationActivities) NotifyAttendee(ctx context.Context, userID, title string) error {
	if a.Notifier == nil {
		log.Printf("PUSH (no notifier) → user=%s activity=%q cancelled", userID, title)
		return nil
	}
	body := fmt.Sprintf("%q has been cancelled by the organizer.", title)
	return a.Notifier.SendPush(ctx, userID, "Activity cancelled", body)
}

// RestoreAttendance puts a previous status back (saga compensation / rollback).
func (a *CancellationActivities) RestoreAttendance(ctx context.Context, attendanceID, status string) error {
	if err := a.Attendance.UpdateStatus(ctx, attendanceID, domain.AttendanceStatus(status)); err != nil {
		return fmt.Errorf("restore attendance %s: %w", attendanceID, err)
	}
	log.Printf("Attendance %s restored to %s (saga compensation)", attendanceID, status)
	return nil
}
