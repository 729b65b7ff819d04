package user

import "time"

// User is the single persisted entity: an account plus two mutable
// profile attributes shown on the dashboard.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	AttributeInt int64
	AttributeStr string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
