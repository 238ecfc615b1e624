package domain

import "time"

// AuditAction identifies which credential operation produced an audit event.
type AuditAction string

const (
	AuditActionRegister AuditAction = "register"
	AuditActionLogin    AuditAction = "login"
)

// AuditOutcome is the terminal result of an audited attempt.
type AuditOutcome string

const (
	OutcomeSuccess            AuditOutcome = "success"
	OutcomeInvalidCredentials AuditOutcome = "invalid_credentials"
	OutcomeDuplicate          AuditOutcome = "duplicate"
	OutcomeThrottled          AuditOutcome = "throttled"
	OutcomeError              AuditOutcome = "error"
)

// LoginEvent records a single register/login attempt for the audit trail.
// Events are persisted asynchronously; losing one under overload is acceptable,
// blocking a login to write one is not.
type LoginEvent struct {
	Email     string
	Action    AuditAction
	Outcome   AuditOutcome
	RemoteIP  string
	Timestamp time.Time
}
