package service

// Outcome labels for rate-limit decisions.
const (
	RateLimitAllowed      = "allowed"
	RateLimitDenied       = "denied"
	RateLimitErrorAllowed = "error_allowed"
	RateLimitErrorDenied  = "error_denied"
)

// Session event labels.
const (
	SessionIssued    = "issued"
	SessionRefreshed = "refreshed"
	SessionRejected  = "rejected"
)

// AuthMetrics records authentication counters.
type AuthMetrics interface {
	RecordRateLimitDecision(action, outcome string)
	RecordSessionEvent(event string)
	RecordAuthAttempt(method, outcome string)
}
