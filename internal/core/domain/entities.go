package domain

import (
	"time"
)

// User is an account that creates activities, registers attendance, and
// leaves reviews. Authentication lives outside this service; only the
// profile fields needed for expansion are modeled here.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the creator expansion embedded in activity and
// attendance responses.
type UserSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Summary trims a User down to its expansion fields.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}

// Activity is an event users can attend. Latitude and longitude are
// required for the activity to be eligible for proximity search.
type Activity struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	MapURL      string         `json:"map_url,omitempty"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Status      ActivityStatus `json:"status"`
	Category    Category       `json:"category"`
	Price       float64        `json:"price"`
	Capacity    int            `json:"capacity"`
	CreatorID   string         `json:"creator_id"`
	Creator     *UserSummary   `json:"creator,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AnnotatedActivity is an Activity plus the computed distance from a search
// origin, in kilometers rounded to one decimal place. Produced fresh per
// request, never persisted.
type AnnotatedActivity struct {
	Activity
	Distance float64 `json:"distance"`
}

// Attendance records a user's registration at an activity.
// One record per (user, activity) pair.
type Attendance struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	ActivityID string           `json:"activity_id"`
	Status     AttendanceStatus `json:"status"`
	AttendedAt time.Time        `json:"attended_at"`
	User       *UserSummary     `json:"user,omitempty"`
	Activity   *Activity        `json:"activity,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// AttendanceStats summarizes registrations for one activity.
type AttendanceStats struct {
	Total          int            `json:"total_attendance"`
	AttendanceRate float64        `json:"attendance_rate"` // percent of capacity
	ByStatus       map[string]int `json:"status_breakdown"`
}

// Review is a user's rating of an activity. One per (user, activity) pair.
type Review struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	ActivityID string       `json:"activity_id"`
	Rating     int          `json:"rating"` // 1..5
	Comment    string       `json:"comment,omitempty"`
	User       *UserSummary `json:"user,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
