package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
	"github.com/gatherly/api/internal/core/usecases"
	"github.com/gatherly/api/internal/pkg/metrics"
)

// callerID returns the authenticated user ID forwarded by the gateway.
func callerID(c *fiber.Ctx) string {
	return c.Get("X-User-ID")
}

// caller resolves the calling user, including their role.
func caller(c *fiber.Ctx, deps *Dependencies) (*domain.User, error) {
	id := callerID(c)
	if id == "" {
		return nil, fmt.Errorf("missing X-User-ID header")
	}
	return deps.Users.GetByID(c.Context(), id)
}

// NearbyActivitiesHandler returns upcoming activities within a radius of a
// point, nearest first. This is the proximity search endpoint.
func NearbyActivitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latRaw := c.Query("lat")
		lngRaw := c.Query("lng")
		if latRaw == "" || lngRaw == "" {
			return envBadRequest(c, "lat and lng query parameters are required")
		}
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			return envBadRequest(c, "lat must be a number")
		}
		lng, err := strconv.ParseFloat(lngRaw, 64)
		if err != nil {
			return envBadRequest(c, "lng must be a number")
		}

		minRadius, maxRadius, defRadius := deps.Search.MinRadiusKm, deps.Search.MaxRadiusKm, deps.Search.DefaultRadiusKm
		if maxRadius == 0 {
			minRadius, maxRadius, defRadius = 0.1, 100, 10
		}

		maxDistance := defRadius
		if raw := c.Query("maxDistance"); raw != "" {
			maxDistance, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return envBadRequest(c, "maxDistance must be a number")
			}
		}
		if maxDistance < minRadius || maxDistance > maxRadius {
			return envBadRequest(c, fmt.Sprintf("maxDistance must be between %g and %g kilometers", minRadius, maxRadius))
		}

		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)

		metrics.NearbySearches.Inc()

		res, err := deps.Activities.FindNearby(c.Context(), lat, lng, maxDistance, page, limit)
		if err != nil {
			return serviceError(c, err)
		}

		return respond(c, 200, "nearby activities retrieved successfully", res)
	}
}

type createActivityRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	MapURL      string    `json:"map_url"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
}

// CreateActivityHandler creates an activity owned by the caller.
func CreateActivityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := callerID(c)
		if uid == "" {
			return envUnauthorized(c, "X-User-ID header is required")
		}

		var req createActivityRequest
		if err := c.BodyParser(&req); err != nil {
			return envBadRequest(c, "invalid request body")
		}

		a, err := deps.Activities.Create(c.Context(), uid, usecases.CreateActivity{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			MapURL:      req.MapURL,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Category:    domain.Category(req.Category),
			Price:       req.Price,
			Capacity:    req.Capacity,
		})
		if err != nil {
			return serviceError(c, err)
		}

		metrics.ActivitiesCreated.WithLabelValues(string(a.Category)).Inc()
		return respond(c, 201, "activity created successfully", a)
	}
}

// ListActivitiesHandler lists activities with optional category and time filters.
func ListActivitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := ports.ActivityFilter{
			Category: domain.Category(c.Query("category")),
			Time:     domain.TimeFilter(c.Query("status")),
		}
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)

		activities, total, err := deps.Activities.List(c.Context(), filter, page, limit)
		if err != nil {
			return serviceError(c, err)
		}

		meta := NewPageMeta(page, limit, total)
		SetLinkHeaders(c, page, limit, meta.TotalPages)
		return respond(c, 200, "activities retrieved successfully", fiber.Map{
			"activities": activities,
			"pagination": meta,
		})
	}
}

// GetActivityHandler returns a single activity by ID.
func GetActivityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		a, err := deps.Activities.GetByID(c.Context(), id)
		if err != nil {
			return envNotFound(c, "activity not found")
		}
		return respond(c, 200, "activity retrieved successfully", a)
	}
}

type updateActivityRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	MapURL      *string    `json:"map_url"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Category    *string    `json:"category"`
	Price       *float64   `json:"price"`
	Capacity    *int       `json:"capacity"`
}

// UpdateActivityHandler applies a partial update. Creator only.
func UpdateActivityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := callerID(c)
		if uid == "" {
			return envUnauthorized(c, "X-User-ID header is required")
		}

		var req updateActivityRequest
		if err := c.BodyParser(&req); err != nil {
			return envBadRequest(c, "invalid request body")
		}

		in := usecases.UpdateActivity{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			MapURL:      req.MapURL,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Price:       req.Price,
			Capacity:    req.Capacity,
		}
		if req.Category != nil {
			cat := domain.Category(*req.Category)
			in.Category = &cat
		}

		a, err := deps.Activities.Update(c.Context(), uid, c.Params("id"), in)
		if err != nil {
			return serviceError(c, err)
		}
		return respond(c, 200, "activity updated successfully", a)
	}
}

// CancelActivityHandler cancels (deletes) an activity. Creator or admin.
func CancelActivityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := caller(c, deps)
		if err != nil {
			return envUnauthorized(c, "unknown caller")
		}

		if err := deps.Activities.Cancel(c.Context(), u.ID, u.Role, c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return respond(c, 200, "activity cancelled successfully", nil)
	}
}

// MyActivitiesHandler lists the caller's own activities.
func MyActivitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := callerID(c)
		if uid == "" {
			return envUnauthorized(c, "X-User-ID header is required")
		}
		return listUserActivities(c, deps, uid)
	}
}

// UserActivitiesHandler lists another user's activities.
func UserActivitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return listUserActivities(c, deps, c.Params("id"))
	}
}

func listUserActivities(c *fiber.Ctx, deps *Dependencies, userID string) error {
	filter := ports.ActivityFilter{
		CreatorID: userID,
		Category:  domain.Category(c.Query("category")),
		Time:      domain.TimeFilter(c.Query("status")),
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	activities, total, err := deps.Activities.List(c.Context(), filter, page, limit)
	if err != nil {
		return serviceError(c, err)
	}

	meta := NewPageMeta(page, limit, total)
	SetLinkHeaders(c, page, limit, meta.TotalPages)
	return respond(c, 200, "activities retrieved successfully", fiber.Map{
		"activities": activities,
		"pagination": meta,
	})
}

type registerAttendanceRequest struct {
	ActivityID string `json:"activity_id"`
	Status     string `json:"status"`
}

// RegisterAttendanceHandler records the caller's attendance at an activity.
func RegisterAttendanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := callerID(c)
		if uid == "" {
			return envUnauthorized(c, "X-User-ID header is required")
		}

		var req registerAttendanceRequest
		if err := c.BodyParser(&req); err != nil {
			return envBadRequest(c, "invalid request body")
		}
		if req.ActivityID == "" {
			return envBadRequest(c, "activity_id is required")
		}

		att, err := deps.Attendance.Register(c.Context(), uid, req.ActivityID, domain.AttendanceStatus(req.Status))
		if err != nil {
			return serviceError(c, err)
		}

		metrics.AttendanceRegistered.Inc()
		return respond(c, 201, "attendance registered successfully", att)
	}
}

// MyAttendanceHandler lists the caller's attendance history.
func MyAttendanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := callerID(c)
		if uid == "" {
			return envUnauthorized(c, "X-User-ID header is required")
		}
		return listUserAttendance(c, deps, uid)
	}
}

// UserAttendanceHandler lists another user's attendance history.
func UserAttendanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return listUserAttendance(c, deps, c.Params("id"))
	}
}

func listUserAttendance(c *fiber.Ctx, deps *Dependencies, userID string) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := domain.AttendanceStatus(c.Query("status"))
	activityID := c.Query("activity_id")

	records, total, err := deps.Attendance.ListForUser(c.Context(), userID, status, activityID, page, limit)
	if err != nil {
		return serviceError(c, err)
	}

	meta := NewPageMeta(page, limit, total)
	SetLinkHeaders(c, page, limit, meta.TotalPages)
	return respond(c, 200, "attendance retrieved successfully", fiber.Map{
		"attendance": records,
		"pagination": meta,
	})
}

// ActivityAttendanceHandler lists one activity's attendance with statistics.
func ActivityAttendanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 50)
		status := domain.AttendanceStatus(c.Query("status"))

		result, activity, err := deps.Attendance.ListForActivity(c.Context(), c.Params("id"), status, page, limit)
		if err != nil {
			return serviceError(c, err)
		}

		meta := NewPageMeta(page, limit, result.Total)
		SetLinkHeaders(c, page, limit, meta.TotalPages)
		return respond(c, 200, "activity attendance retrieved successfully", fiber.Map{
			"activity": fiber.Map{
				"id":       activity.ID,
				"title":    activity.Title,
				"capacity": activity.Capacity,
			},
			"attendance": result.Records,
			"stats":      result.Stats,
			"pagination": meta,
		})
	}
}

type updateAttendanceRequest struct {
	Status string `json:"status"`
}

// UpdateAttendanceHandler changes the status of an attendance record.
func UpdateAttendanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateAttendanceRequest
		if err := c.BodyParser(&req); err != nil {
			return envBadRequest(c, "invalid request body")
		}

		att, err := deps.Attendance.UpdateStatus(c.Context(), c.Params("id"), domain.AttendanceStatus(req.Status))
		if err != nil {
			return serviceError(c, err)
		}
		return respond(c, 200, "attendance updated successfully", att)
	}
}

// RemoveAttendanceHandler deletes an attendance record. Owner or admin.
func RemoveAttendanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := caller(c, deps)
		if err != nil {
			return envUnauthorized(c, "unknown caller")
		}

		if err := deps.Attendance.Remove(c.Context(), u.ID, u.Role, c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return respond(c, 200, "attendance removed successfully", nil)
	}
}

type createReviewRequest struct {
	ActivityID string `json:"activity_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// CreateReviewHandler adds a review by the caller.
func CreateReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := callerID(c)
		if uid == "" {
			return envUnauthorized(c, "X-User-ID header is required")
		}

		var req createReviewRequest
		if err := c.BodyParser(&req); err != nil {
			return envBadRequest(c, "invalid request body")
		}
		if req.ActivityID == "" {
			return envBadRequest(c, "activity_id is required")
		}

		r, err := deps.Reviews.Create(c.Context(), uid, req.ActivityID, req.Rating, req.Comment)
		if err != nil {
			return serviceError(c, err)
		}
		return respond(c, 201, "review created successfully", r)
	}
}

// ListReviewsHandler lists reviews filtered by activity or user.
func ListReviewsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := ports.ReviewFilter{
			UserID:     c.Query("user_id"),
			ActivityID: c.Query("activity_id"),
		}
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)

		reviews, total, err := deps.Reviews.List(c.Context(), filter, page, limit)
		if err != nil {
			return serviceError(c, err)
		}

		meta := NewPageMeta(page, limit, total)
		SetLinkHeaders(c, page, limit, meta.TotalPages)
		return respond(c, 200, "reviews retrieved successfully", fiber.Map{
			"reviews":    reviews,
			"pagination": meta,
		})
	}
}

// GetReviewHandler returns a single review.
func GetReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := deps.Reviews.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return envNotFound(c, "review not found")
		}
		return respond(c, 200, "review retrieved successfully", r)
	}
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// UpdateReviewHandler updates the caller's own review.
func UpdateReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := callerID(c)
		if uid == "" {
			return envUnauthorized(c, "X-User-ID header is required")
		}

		var req updateReviewRequest
		if err := c.BodyParser(&req); err != nil {
			return envBadRequest(c, "invalid request body")
		}

		r, err := deps.Reviews.Update(c.Context(), uid, c.Params("id"), req.Rating, req.Comment)
		if err != nil {
			return serviceError(c, err)
		}
		return respond(c, 200, "review updated successfully", r)
	}
}

// DeleteReviewHandler removes a review. Author or admin.
func DeleteReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := caller(c, deps)
		if err != nil {
			return envUnauthorized(c, "unknown caller")
		}

		if err := deps.Reviews.Delete(c.Context(), u.ID, u.Role, c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return respond(c, 200, "review deleted successfully", nil)
	}
}

type createUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image"`
}

// CreateUserHandler registers a user profile.
func CreateUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := c.BodyParser(&req); err != nil {
			return envBadRequest(c, "invalid request body")
		}

		u, err := deps.Users.Create(c.Context(), req.Name, req.Email, req.ProfileImage)
		if err != nil {
			return serviceError(c, err)
		}
		return respond(c, 201, "user created successfully", u)
	}
}

// GetUserHandler returns a user profile.
func GetUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := deps.Users.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return envNotFound(c, "user not found")
		}
		return respond(c, 200, "user retrieved successfully", u)
	}
}
