package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("a user with that username already exists")
	ErrInvalidCredentials   = errors.New("unable to log in with provided credentials")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrMetricTypeNotFound   = errors.New("metric type not found")
	ErrMetricTypeInUse      = errors.New("metric type is referenced by observations or goals")
	ErrHealthMetricNotFound = errors.New("health metric not found")
	ErrGoalNotFound         = errors.New("goal not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrExportNotFound       = errors.New("export not found")
)

// ValidationError is a field-level input failure surfaced to the client as 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidationError unwraps err into a *ValidationError if it carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
