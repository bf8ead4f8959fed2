package constants

// ContextKeyUserID is the key under which the authenticated user ID is stored
// in both the session and the gin context.
const ContextKeyUserID = "user_id"

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// MinFeedbackLength is the minimum accepted feedback content length.
const MinFeedbackLength = 10

// Pagination bounds for list endpoints.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PublicLinkTokenLength is the length of a plan's public link token.
const PublicLinkTokenLength = 8

// PublicLinkTokenAlphabet is the character set public link tokens are drawn from.
const PublicLinkTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
