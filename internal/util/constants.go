package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// gin context keys
const (
	ContextUserKey      = "user"
	ContextConfigKey    = "config"
	ContextRequestIDKey = "request_id"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)
