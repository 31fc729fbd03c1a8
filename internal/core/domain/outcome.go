package domain

// OutcomeStatus is the terminal state of one submission. There is no retry
// state; any failure is terminal for that invocation and the caller may
// resubmit.
type OutcomeStatus string

const (
	OutcomeSuccess   OutcomeStatus = "success"
	OutcomeRejected  OutcomeStatus = "rejected"
	OutcomeFailure   OutcomeStatus = "failure"
	OutcomeCancelled OutcomeStatus = "cancelled"
)

// NoticeKind is the tone of the notification emitted for an outcome.
// Cancelling a federated sign-in is neutral, not an error.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeNeutral NoticeKind = "neutral"
)

// Outcome is the terminal result of a submission, already translated to a
// user-facing message. Reason is set only when Status is OutcomeFailure.
type Outcome struct {
	Status      OutcomeStatus
	Notice      NoticeKind
	Message     string
	Reason      ProviderCode
	FieldErrors FieldErrors
	UID         string
}
