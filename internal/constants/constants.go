package constants

const (
	// ContextKeyUserID is the session and Gin context key holding the
	// authenticated user's ID.
	ContextKeyUserID = "user_id"

	SessionCookieName = "projecthub_session"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxAIGeneratedItems caps how many drafts a single AI call may
	// produce.
	MaxAIGeneratedItems = 20
)
