package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// CancellationInput is the input for the cancellation workflow.
type CancellationInput struct {
	ActivityID string
	Title      string
}

// CancellationWorkflow orchestrates the fallout of a cancelled activity:
// list the attendees, mark their attendance excused, and push a
// notification to each. If a push fails, that attendee's previous
// attendance status is restored (saga compensation).
func CancellationWorkflow(ctx workflow.Context, input CancellationInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting cancellation workflow", "activityID", input.ActivityID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: List attendees
	var attendees []Attendee
	if err := workflow.ExecuteActivity(ctx, "ListAttendees", input.ActivityID).Get(ctx, &attendees); err != nil {
		return err
	}
	if len(attendees) == 0 {
		logger.Info("No attendees to notify", "activityID", input.ActivityID)
		return nil
	}

	// Step 2: Per attendee, excuse the attendance and notify
	var failed int
	for _, att := range attendees {
		if err := workflow.ExecuteActivity(ctx, "MarkAttendanceExcused", att.AttendanceID).Get(ctx, nil); err != nil {
			logger.Warn("excuse attendance failed", "attendanceID", att.AttendanceID, "error", err)
			failed++
			continue
		}

		if err := workflow.ExecuteActivity(ctx, "NotifyAttendee", att.UserID, input.Title).Get(ctx, nil); err != nil {
			logger.Warn("push failed, restoring attendance", "userID", att.UserID, "error", err)
			// Compensate: put the previous status back
			_ = workflow.ExecuteActivity(ctx, "RestoreAttendance", att.AttendanceID, att.PrevStatus).Get(ctx, nil)
			failed++
		}
	}

	logger.Info("Cancellation fan-out complete",
		"activityID", input.ActivityID, "attendees", len(attendees), "failed", failed)
	return nil
}
