package constants

// Context keys
const (
	ContextKeyUserID     = "user_id"
	ContextKeyRequestID  = "request_id"
	ContextKeyResourceID = "resource_id"
)

// Headers
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderTotalCount = "X-Total-Count"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

// Validation limits
const (
	MaxUsernameLength = 150
	MaxNameLength     = 255
	MaxTitleLength    = 255
)

// AI task drafting
const (
	MaxAIGeneratedTasks = 20
)
