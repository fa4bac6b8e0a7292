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

// AttendanceRepo implements ports.AttendanceRepository with pgx.
type AttendanceRepo struct {
	db *DB
}

// NewAttendanceRepo creates a new AttendanceRepo.
func NewAttendanceRepo(db *DB) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

const attendanceColumns = `
	t.id, t.user_id, t.activity_id, t.status, t.attended_at, t.created_at,
	u.id, u.name, u.email, COALESCE(u.profile_image, '')`

func scanAttendance(row interface{ Scan(...any) error }) (*domain.Attendance, error) {
	var att domain.Attendance
	var user domain.UserSummary
	if err := row.Scan(
		&att.ID, &att.UserID, &att.ActivityID, &att.Status, &att.AttendedAt, &att.CreatedAt,
		&user.ID, &user.Name, &user.Email, &user.ProfileImage,
	); err != nil {
		return nil, err
	}
	att.User = &user
	return &att, nil
}

// Create inserts an attendance record. The unique constraint on
// (user_id, activity_id) backs the one-registration rule.
func (r *AttendanceRepo) Create(ctx context.Context, a *domain.Attendance) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO attendance (user_id, activity_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, attended_at, created_at
	`, a.UserID, a.ActivityID, a.Status).Scan(&a.ID, &a.AttendedAt, &a.CreatedAt)
}

// GetByID returns an attendance record with its user expanded.
func (r *AttendanceRepo) GetByID(ctx context.Context, id string) (*domain.Attendance, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendance t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`, id)
	return scanAttendance(row)
}

// Find looks up the record for one (user, activity) pair. Returns
// (nil, nil) when no registration exists.
func (r *AttendanceRepo) Find(ctx context.Context, userID, activityID string) (*domain.Attendance, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendance t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1 AND t.activity_id = $2
	`, userID, activityID)
	att, err := scanAttendance(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return att, err
}

// List returns a page of attendance records matching the filter plus the
// total count, newest first.
func (r *AttendanceRepo) List(ctx context.Context, filter ports.AttendanceFilter, offset, limit int) ([]domain.Attendance, int, error) {
	var conds []string
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("t.user_id = $%d", len(args)))
	}
	if filter.ActivityID != "" {
		args = append(args, filter.ActivityID)
		conds = append(conds, fmt.Sprintf("t.activity_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("t.status = $%d", len(args)))
	}

	var where string
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM attendance t`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendance t
		JOIN users u ON u.id = t.user_id`+where+`
		ORDER BY t.attended_at DESC
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []domain.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *att)
	}
	return records, total, rows.Err()
}

// UpdateStatus changes the status of one record.
func (r *AttendanceRepo) UpdateStatus(ctx context.Context, id string, status domain.AttendanceStatus) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE attendance SET status = $2 WHERE id = $1`, id, status)
	return err
}

// Delete removes an attendance record.
func (r *AttendanceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	return err
}

// StatusBreakdown returns per-status counts for one activity.
func (r *AttendanceRepo) StatusBreakdown(ctx context.Context, activityID string) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT status, count(*)
		FROM attendance
		WHERE activity_id = $1
		GROUP BY status
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		breakdown[status] = count
	}
	return breakdown, rows.Err()
}
