package domain

import "time"

// Years of study accepted at registration.
const (
	YearFirst  = "1"
	YearSecond = "2"
	YearThird  = "3"
	YearFourth = "4"
)

// ValidYear reports whether y is one of the accepted years of study.
func ValidYear(y string) bool {
	switch y {
	case YearFirst, YearSecond, YearThird, YearFourth:
		return true
	}
	return false
}

// Identity is the subject returned by the identity provider after a
// successful account creation, password check, or federated sign-in.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// UserProfileRecord is the durable profile document kept in the store.
// UID is the provider-issued subject identifier and never changes; it is
// the natural key of the record.
type UserProfileRecord struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	StudentID   string    `json:"student_id,omitempty"`
	Year        string    `json:"year,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
}

// ProfileFields carries the fields a registration merge-write sets.
// Fields already present on the stored record but absent here survive the
// write; timestamps are assigned by the store, never by the caller.
type ProfileFields struct {
	Email     string
	StudentID string
	Year      string
}

// LoginEvent is one entry of a user's append-only login history.
type LoginEvent struct {
	ID   string    `json:"id"`
	UID  string    `json:"uid"`
	Time time.Time `json:"time"`
}
