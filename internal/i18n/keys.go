package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyValidation indicates one or more fields failed validation.
	ErrKeyValidation = "error.validation"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyForbidden indicates insufficient permissions.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
)

// Order flow error keys.
const (
	ErrKeySessionNotFound       = "error.session_not_found"
	ErrKeyOrderNotFound         = "error.order_not_found"
	ErrKeyUploadFailed          = "error.upload_failed"
	ErrKeyPriceConfirmation     = "error.price_confirmation_failed"
	ErrKeySubmissionFailed      = "error.submission_failed"
	ErrKeyPaymentCheckFailed    = "error.payment_check_failed"
	ErrKeyInvalidTransition     = "error.invalid_transition"
	ErrKeyStepRequirements      = "error.step_requirements"
	ErrKeyTransitionInFlight    = "error.transition_in_flight"
	ErrKeyDraftLocked           = "error.draft_locked"
	ErrKeyPriceConfiguration    = "error.price_configuration"
	ErrKeyOrderAPIUnavailable   = "error.order_api_unavailable"
	ErrKeyStatusChange          = "error.status_change"
	ErrKeyPriceTableNotFound    = "error.price_table_not_found"
	ErrKeyPriceTableUnavailable = "error.price_table_unavailable"
)
