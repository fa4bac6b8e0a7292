package domain

// ActivityStatus is the lifecycle state of an activity.
type ActivityStatus string

const (
	StatusDraft     ActivityStatus = "DRAFT"
	StatusUpcoming  ActivityStatus = "UPCOMING"
	StatusOngoing   ActivityStatus = "ONGOING"
	StatusCompleted ActivityStatus = "COMPLETED"
	StatusCancelled ActivityStatus = "CANCELLED"
)

// Valid reports whether s is a member of the closed status set.
func (s ActivityStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Category classifies an activity.
type Category string

const (
	CategoryMusic      Category = "MUSIC"
	CategorySports     Category = "SPORTS"
	CategoryArt        Category = "ART"
	CategoryEducation  Category = "EDUCATION"
	CategoryBusiness   Category = "BUSINESS"
	CategoryTechnology Category = "TECHNOLOGY"
	CategoryFood       Category = "FOOD"
	CategoryTravel     Category = "TRAVEL"
	CategoryOther      Category = "OTHER"
)

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryMusic, CategorySports, CategoryArt, CategoryEducation,
		CategoryBusiness, CategoryTechnology, CategoryFood, CategoryTravel,
		CategoryOther:
		return true
	}
	return false
}

// AttendanceStatus is the state of one attendance record.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Valid reports whether s is a member of the closed attendance set.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Role is the caller's role as established by the upstream auth layer.
type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// TimeFilter selects activities relative to now.
type TimeFilter string

const (
	FilterAll      TimeFilter = "all"
	FilterUpcoming TimeFilter = "upcoming"
	FilterOngoing  TimeFilter = "ongoing"
	FilterPast     TimeFilter = "past"
)

// Valid reports whether f is a member of the closed filter set.
func (f TimeFilter) Valid() bool {
	switch f {
	case FilterAll, FilterUpcoming, FilterOngoing, FilterPast:
		return true
	}
	return false
}
