package services

// ServiceError is a typed error carrying a machine-readable code that
// controllers translate into an HTTP status.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Error codes returned by the service layer.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeForbidden     = "FORBIDDEN"
	CodeValidation    = "VALIDATION_ERROR"
	CodeStateConflict = "STATE_CONFLICT"
	CodeDatabase      = "DATABASE_ERROR"
)

// NewNotFoundError reports a missing order, employee, or other referenced record.
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message}
}

// NewForbiddenError reports an actor lacking the required role or stage assignment.
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{Code: CodeForbidden, Message: message}
}

// NewValidationError reports malformed input to a transition request.
func NewValidationError(message string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: message}
}

// NewStateConflictError reports a transition the current order state does not allow.
func NewStateConflictError(message string) *ServiceError {
	return &ServiceError{Code: CodeStateConflict, Message: message}
}

// NewDatabaseError reports a failed persistence operation.
func NewDatabaseError(message string) *ServiceError {
	return &ServiceError{Code: CodeDatabase, Message: message}
}
