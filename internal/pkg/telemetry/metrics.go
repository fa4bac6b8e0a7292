package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Search quality
	MetricNearbyLatency    = "search.nearby_latency"
	MetricNearbyCandidates = "search.nearby_candidates"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricActivitiesCreated = "business.activities_created"
	MetricRegistrations     = "business.registrations"
)
