package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Auth flow errors
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeLoginFailed        = "login_failed"
	ErrCodeRefreshFailed      = "refresh_failed"
	ErrCodeEmailTaken         = "email_taken"

	// Course / enrollment errors
	ErrCodeCourseNotFound    = "course_not_found"
	ErrCodeCourseFetchFailed = "course_fetch_failed"
	ErrCodeEnrollmentFailed  = "enrollment_failed"

	// Quiz / attempt errors
	ErrCodeQuizNotFound       = "quiz_not_found"
	ErrCodeAttemptNotFound    = "attempt_not_found"
	ErrCodeAttemptStartFailed = "attempt_start_failed"
	ErrCodeAttemptSubmitted   = "attempt_already_submitted"
	ErrCodeSubmitFailed       = "submit_failed"

	// Messaging errors
	ErrCodeSendFailed          = "send_failed"
	ErrCodeConversationInvalid = "invalid_conversation"
	ErrCodeMarkReadFailed      = "mark_read_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"

	// OAuth errors
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthStartFailed    = "oauth_start_failed"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"

	// Dashboard errors
	ErrCodeStatsFetchFailed = "stats_fetch_failed"
)
