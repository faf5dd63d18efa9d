package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrEmailTaken       ErrCode = "EMAIL_TAKEN"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Quiz / attempt ────────────────────────────────────────────────
	ErrQuizNotAvailable  ErrCode = "QUIZ_NOT_AVAILABLE"
	ErrQuizExpired       ErrCode = "QUIZ_EXPIRED"
	ErrQuizNoQuestions   ErrCode = "QUIZ_NO_QUESTIONS"
	ErrAttemptCompleted  ErrCode = "ATTEMPT_ALREADY_COMPLETED"
	ErrAttemptLimit      ErrCode = "ATTEMPT_LIMIT_REACHED"
	ErrResponseExists    ErrCode = "RESPONSE_ALREADY_EXISTS"
	ErrAttemptNotActive  ErrCode = "ATTEMPT_NOT_ACTIVE"

	// ─── Internship offers ─────────────────────────────────────────────
	ErrOfferExpired  ErrCode = "OFFER_EXPIRED"
	ErrOfferAccepted ErrCode = "OFFER_ALREADY_ACCEPTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrDependencyExists:
		return "This record cannot be deleted because other records depend on it."

	// ─── Quiz / attempt ────────────────────────────────────────────────
	case ErrQuizNotAvailable:
		return "This quiz is not currently available."
	case ErrQuizExpired:
		return "This quiz is no longer open for attempts."
	case ErrQuizNoQuestions:
		return "This quiz has no questions."
	case ErrAttemptCompleted:
		return "You have already completed this quiz."
	case ErrAttemptLimit:
		return "You have reached the attempt limit for this quiz."
	case ErrResponseExists:
		return "An answer for this question already exists. Use PUT to update it."
	case ErrAttemptNotActive:
		return "This attempt is not in progress."

	// ─── Internship offers ─────────────────────────────────────────────
	case ErrOfferExpired:
		return "This internship offer link has expired."
	case ErrOfferAccepted:
		return "This internship offer has already been accepted."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
