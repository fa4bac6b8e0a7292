package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
	"github.com/gatherly/api/internal/pkg/geospatial"
	"github.com/gatherly/api/internal/pkg/metrics"
)

// nearbyCandidateCap bounds the bounding-box fetch so a huge radius over a
// dense region cannot pull the whole table into memory.
const nearbyCandidateCap = 500

// ActivityService handles activity business logic, including the
// geo-proximity search.
type ActivityService struct {
	activities ports.ActivityRepository
	users      ports.UserRepository
	cache      ports.CacheService
	events     ports.EventPublisher
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activities ports.ActivityRepository, users ports.UserRepository, cache ports.CacheService, events ports.EventPublisher) *ActivityService {
	return &ActivityService{activities: activities, users: users, cache: cache, events: events}
}

// NearbyPagination describes the returned page of a nearby search.
type NearbyPagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalActivities int  `json:"totalActivities"`
	HasNext         bool `json:"hasNext"`
	HasPrev         bool `json:"hasPrev"`
}

// SearchLocation echoes the search origin back to the caller.
type SearchLocation struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MaxDistance float64 `json:"maxDistance"`
}

// NearbyResult is the assembled response of a nearby search.
type NearbyResult struct {
	Activities []domain.AnnotatedActivity `json:"activities"`
	Pagination NearbyPagination           `json:"pagination"`
	Search     SearchLocation             `json:"searchLocation"`
}

// FindNearby returns future activities within maxDistanceKm of the given
// point, annotated with distance, nearest first, paginated.
//
// Candidates come from an indexed bounding-box range query; the true
// great-circle distance is then computed per candidate and the set is
// filtered to the circle before sorting and paginating, so every returned
// distance is ≤ maxDistanceKm and the total count reflects the circle,
// not the box.
func (s *ActivityService) FindNearby(ctx context.Context, lat, lng, maxDistanceKm float64, page, limit int) (*NearbyResult, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: latitude must be a number between -90 and 90", ErrInvalidArgument)
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: longitude must be a number between -180 and 180", ErrInvalidArgument)
	}
	if math.IsNaN(maxDistanceKm) || math.IsInf(maxDistanceKm, 0) || maxDistanceKm <= 0 {
		return nil, fmt.Errorf("%w: maxDistance must be a positive number of kilometers", ErrInvalidArgument)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("activities:nearby:%.4f:%.4f:%.1f:%d:%d", lat, lng, maxDistanceKm, page, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var res NearbyResult
			if err := json.Unmarshal(data, &res); err == nil {
				return &res, nil
			}
		}
	}

	minLat, minLng, maxLat, maxLng := geospatial.BoundingBox(lat, lng, maxDistanceKm)
	bounds := domain.Bounds{MinLat: minLat, MinLng: minLng, MaxLat: maxLat, MaxLng: maxLng}
	now := time.Now()

	candidates, err := s.activities.FindInBounds(ctx, bounds, now, nearbyCandidateCap)
	if err != nil {
		return nil, err
	}
	metrics.NearbyCandidates.Observe(float64(len(candidates)))

	if len(candidates) == nearbyCandidateCap {
		if total, err := s.activities.CountInBounds(ctx, bounds, now); err == nil && total > nearbyCandidateCap {
			slog.Warn("nearby candidate set truncated",
				"box_total", total, "cap", nearbyCandidateCap,
				"lat", lat, "lng", lng, "radius_km", maxDistanceKm)
		}
	}

	annotated := make([]domain.AnnotatedActivity, 0, len(candidates))
	for _, a := range candidates {
		d := geospatial.RoundKm(geospatial.Haversine(lat, lng, a.Latitude, a.Longitude))
		// The box is a superset of the circle; drop the corners.
		if d > maxDistanceKm {
			continue
		}
		annotated = append(annotated, domain.AnnotatedActivity{Activity: a, Distance: d})
	}

	sort.SliceStable(annotated, func(i, j int) bool {
		return annotated[i].Distance < annotated[j].Distance
	})

	total := len(annotated)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	res := &NearbyResult{
		Activities: annotated[start:end],
		Pagination: NearbyPagination{
			CurrentPage:     page,
			TotalPages:      (total + limit - 1) / limit,
			TotalActivities: total,
			HasNext:         page*limit < total,
			HasPrev:         page > 1,
		},
		Search: SearchLocation{Latitude: lat, Longitude: lng, MaxDistance: maxDistanceKm},
	}

	// Short TTL: new activities should show up quickly.
	if s.cache != nil {
		if data, err := json.Marshal(res); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return res, nil
}

// CreateActivity holds the fields accepted when creating an activity.
type CreateActivity struct {
	Title       string
	Description string
	Location    string
	MapURL      string
	Latitude    float64
	Longitude   float64
	StartDate   time.Time
	EndDate     time.Time
	Category    domain.Category
	Price       float64
	Capacity    int
}

// Create validates and persists a new activity owned by creatorID.
func (s *ActivityService) Create(ctx context.Context, creatorID string, in CreateActivity) (*domain.Activity, error) {
	if in.Title == "" || in.Description == "" || in.Location == "" {
		return nil, fmt.Errorf("%w: title, description and location are required", ErrInvalidArgument)
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: invalid category %q", ErrInvalidArgument, in.Category)
	}
	if !(domain.GeoPoint{Lat: in.Latitude, Lng: in.Longitude}).Valid() {
		return nil, fmt.Errorf("%w: coordinates outside the allowed range", ErrInvalidArgument)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || !in.EndDate.After(in.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidArgument)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	}
	if in.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", ErrInvalidArgument)
	}

	if _, err := s.users.GetByID(ctx, creatorID); err != nil {
		return nil, fmt.Errorf("%w: creator %s", ErrNotFound, creatorID)
	}

	a := &domain.Activity{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		MapURL:      in.MapURL,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      domain.StatusUpcoming,
		Category:    in.Category,
		Price:       in.Price,
		Capacity:    in.Capacity,
		CreatorID:   creatorID,
	}

	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishActivityCreated(ctx, a); err != nil {
			slog.Warn("publish activity.created failed", "activity_id", a.ID, "error", err)
		}
	}

	return s.activities.GetByID(ctx, a.ID)
}

// GetByID returns a single activity with its creator expanded.
func (s *ActivityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	cacheKey := "activities:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var a domain.Activity
			if err := json.Unmarshal(data, &a); err == nil {
				return &a, nil
			}
		}
	}

	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(a); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return a, nil
}

// List returns a page of activities matching the filter plus the total count.
func (s *ActivityService) List(ctx context.Context, filter ports.ActivityFilter, page, limit int) ([]domain.Activity, int, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid category %q", ErrInvalidArgument, filter.Category)
	}
	if filter.Time != "" && !filter.Time.Valid() {
		return nil, 0, fmt.Errorf("%w: status must be one of upcoming, past, ongoing, all", ErrInvalidArgument)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.activities.List(ctx, filter, (page-1)*limit, limit)
}

// UpdateActivity holds the optional fields of a partial update.
type UpdateActivity struct {
	Title       *string
	Description *string
	Location    *string
	MapURL      *string
	Latitude    *float64
	Longitude   *float64
	StartDate   *time.Time
	EndDate     *time.Time
	Category    *domain.Category
	Price       *float64
	Capacity    *int
}

// Update applies a partial update. Only the creator may update an activity.
func (s *ActivityService) Update(ctx context.Context, callerID, id string, in UpdateActivity) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: activity %s", ErrNotFound, id)
	}
	if a.CreatorID != callerID {
		return nil, fmt.Errorf("%w: only the creator can update this activity", ErrForbidden)
	}

	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.Location != nil {
		a.Location = *in.Location
	}
	if in.MapURL != nil {
		a.MapURL = *in.MapURL
	}
	if in.Latitude != nil {
		a.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		a.Longitude = *in.Longitude
	}
	if in.StartDate != nil {
		a.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		a.EndDate = *in.EndDate
	}
	if in.Category != nil {
		a.Category = *in.Category
	}
	if in.Price != nil {
		a.Price = *in.Price
	}
	if in.Capacity != nil {
		a.Capacity = *in.Capacity
	}

	if !a.Category.Valid() {
		return nil, fmt.Errorf("%w: invalid category %q", ErrInvalidArgument, a.Category)
	}
	if !(domain.GeoPoint{Lat: a.Latitude, Lng: a.Longitude}).Valid() {
		return nil, fmt.Errorf("%w: coordinates outside the allowed range", ErrInvalidArgument)
	}
	if !a.EndDate.After(a.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidArgument)
	}
	if a.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	}
	if a.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", ErrInvalidArgument)
	}

	if err := s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "activities:id:"+id)
	}

	return s.activities.GetByID(ctx, id)
}

// Cancel cancels an activity and announces the cancellation. The creator
// or an admin may cancel. Drafts have no attendees and are removed
// outright; anything published is kept with status CANCELLED so that
// attendance history survives and the notifier can reach attendees.
func (s *ActivityService) Cancel(ctx context.Context, callerID string, callerRole domain.Role, id string) error {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: activity %s", ErrNotFound, id)
	}
	if a.CreatorID != callerID && callerRole != domain.RoleAdmin {
		return fmt.Errorf("%w: only the creator or an admin can cancel this activity", ErrForbidden)
	}

	if a.Status == domain.StatusDraft {
		if err := s.activities.Delete(ctx, id); err != nil {
			return err
		}
		if s.cache != nil {
			_ = s.cache.Delete(ctx, "activities:id:"+id)
		}
		return nil
	}

	a.Status = domain.StatusCancelled
	if err := s.activities.Update(ctx, a); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "activities:id:"+id)
	}

	if s.events != nil {
		if err := s.events.PublishActivityCancelled(ctx, a); err != nil {
			slog.Warn("publish activity.cancelled failed", "activity_id", id, "error", err)
		}
	}
	return nil
}
