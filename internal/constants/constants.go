package constants

const (
	// HTTP client constants
	DefaultTimeout          = 30 // seconds
	DefaultRetryCount       = 3
	DefaultRetryWaitTime    = 5  // seconds
	DefaultRetryMaxWaitTime = 20 // seconds

	// Category constants
	DefaultCategoryID    = 1
	CategoryCacheTTL     = 10 // minutes
	CategoriesPerPage    = 100
	UncategorizedDisplay = "Uncategorized"

	// Post listing constants
	DefaultPostsLimit = 5
	MaxPostsLimit     = 20

	// Preview constants
	PreviewLength = 200

	// Image constants
	MaxImageWidth = 1920
	JPEGQuality   = 82
	BytesInMB     = 1024 * 1024

	// Passcode constants
	PasscodeLength   = 8
	PasscodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// Rate limiting constants
	RateLimitMaxAttempts   = 5
	RateLimitWindowSeconds = 60

	// User management constants
	UserPageSize = 10

	// Formatting constants
	TimestampFormat = "2006-01-02 15:04:05"
)
