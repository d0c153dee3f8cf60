package constants

// Database pool defaults.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Poll permissions bitmask.
const (
	PermSeeGuestList = 1 << iota
	PermInviteOthers
)

// Slug shape for public poll identifiers.
const (
	SlugMaxTitleLen = 30
	SlugSuffixLen   = 4
)

// Asynq task types.
const (
	TaskPollNotify = "poll:notify"
)
