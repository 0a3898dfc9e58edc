package domain

import "time"

// Audit-trail actions recorded for authentication operations.
const (
	ActionRegisterTutor    = "register_tutor"
	ActionRegisterEmployee = "register_employee"
	ActionLogin            = "login"
	ActionValidateToken    = "validate_token"
)

// AuthEvent records the outcome of a single authentication operation.
type AuthEvent struct {
	CPF       string
	Action    string
	Success   bool
	Detail    string // failure reason, empty on success
	Timestamp time.Time
}
