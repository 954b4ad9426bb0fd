package constants

const (
	// Session / context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	ContextKeyParamID   = "param_id"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "task_session"
	HeaderRequestID     = "X-Request-ID"

	// Credentials
	MinUsernameLength = 3
	MinPasswordLength = 3

	// Field limits
	MaxTaskTitleLength           = 200
	MaxTaskDescriptionLength     = 1000
	MaxProjectNameLength         = 100
	MaxProjectDescriptionLength  = 500
	MaxCommentLength             = 1000
	MaxNotificationMessageLength = 500

	// Listing limits
	DefaultHistoryLimit    = 100
	MaxHistoryLimit        = 500
	NotificationInboxLimit = 50

	// AI
	MaxAIGeneratedTasks = 20

	// Export
	CSVExportFilename = "tasks_export.csv"
)
