package observability

// Metric name prefixes
const (
	MetricPrefix = "hushhush"
)

// Metric names
const (
	// Pledge engine metrics
	PledgesTotal       = MetricPrefix + ".pledges.total"
	PledgedAmountTotal = MetricPrefix + ".pledges.amount_total"
	VaultsFundedTotal  = MetricPrefix + ".vaults.funded_total"

	// HTTP metrics
	HTTPRequestsTotal   = MetricPrefix + ".http.requests_total"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"
	RateLimitHitsTotal  = MetricPrefix + ".http.rate_limit_hits_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelEventType = "event_type"
	LabelFunded    = "funded"

	// HTTP labels
	LabelRoute  = "route"
	LabelMethod = "method"
	LabelStatus = "status"

	// Database labels
	LabelRepository = "repository"
	LabelOperation  = "operation"
)
