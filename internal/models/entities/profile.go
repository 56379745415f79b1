package entities

import (
	"time"

	"evently/server/internal/constants"
)

// Profile is the application-owned row extending an account. At most
// one per account; role is the sole authorization signal once set.
type Profile struct {
	AccountID         string         `db:"account_id"`
	Email             string         `db:"email"`
	DisplayName       string         `db:"display_name"`
	Role              constants.Role `db:"role"`
	OrganizationName  *string        `db:"organization_name"`
	Bio               *string        `db:"bio"`
	ProfilePictureURL *string        `db:"profile_picture_url"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}
