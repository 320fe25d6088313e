package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrInvalidPasscode ErrCode = "INVALID_PASSCODE"
	ErrTestNotActive   ErrCode = "TEST_NOT_ACTIVE"
	ErrNoDraft         ErrCode = "NO_DRAFT"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrInvalidPasscode:
		return "No test matches this passcode."
	case ErrTestNotActive:
		return "This test is not currently accepting attempts."
	case ErrNoDraft:
		return "No saved progress exists for this attempt."
	case ErrInternal:
		return "An internal error occurred. Please try again."
	default:
		return "Unknown error."
	}
}
