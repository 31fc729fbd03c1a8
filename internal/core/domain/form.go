package domain

// AuthMode selects which branch of the submission flow runs. It determines
// both the validation rules applied and the provider calls issued.
type AuthMode string

const (
	ModeLogin  AuthMode = "login"
	ModeSignup AuthMode = "signup"
)

// Field identifies one input of the auth form. Validation rules and error
// messages are keyed by Field rather than free-form strings so the set of
// fields stays closed.
type Field string

const (
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
	FieldStudentID Field = "student_id"
	FieldYear      Field = "year"
)

// CredentialInput is the raw form state as submitted. StudentID and Year
// are only meaningful in signup mode.
type CredentialInput struct {
	Email     string
	Password  string
	StudentID string
	Year      string
}

// FieldErrors maps each failing field to its user-facing message.
// An empty map means the input passed validation.
type FieldErrors map[Field]string

// ValidationResult is the outcome of one validation pass. FieldErrors
// blocks submission when non-empty; StrengthHints are advisory and never
// block.
type ValidationResult struct {
	FieldErrors   FieldErrors
	StrengthHints []string
}

// Valid reports whether the input may be submitted.
func (r ValidationResult) Valid() bool {
	return len(r.FieldErrors) == 0
}
