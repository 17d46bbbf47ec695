package models

// User levels. The superuser is identified by a fixed configured ID and
// is never stored in the user list.
const (
	LevelSuperuser    = 0
	LevelAdmin        = 1
	LevelOrdinary     = 2
	LevelUnauthorized = -1
)

// User represents an authorized bot user
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Level    int    `json:"level"`
}

// Passcode represents a single-use invite code
type Passcode struct {
	Code    string `json:"code"`
	Created int64  `json:"created"`
}

// AddResult is the outcome of a passcode redemption attempt
type AddResult struct {
	Success bool
	Msg     string
	Name    string
}
