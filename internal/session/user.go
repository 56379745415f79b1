package session

import (
	"strings"

	"evently/server/internal/constants"
	"evently/server/internal/store"
)

// User is the client-local projection of an account merged with its
// profile row. Role is empty until the profile has one.
type User struct {
	ID                string         `json:"id"`
	Email             string         `json:"email"`
	Name              string         `json:"name"`
	Role              constants.Role `json:"role,omitempty"`
	OrganizationName  string         `json:"organization_name,omitempty"`
	Bio               string         `json:"bio,omitempty"`
	ProfilePictureURL string         `json:"profile_picture_url,omitempty"`
}

// View is the settled session triple every page gate reads. It is a
// snapshot; mutating it has no effect on the controller.
type View struct {
	User      *User          `json:"user"`
	Role      constants.Role `json:"role,omitempty"`
	IsLoading bool           `json:"is_loading"`
}

// ProfileDraft carries the sign-up form fields that become the profile
// row. Organization fields are dropped for non-organizers.
type ProfileDraft struct {
	Email             string
	Name              string
	OrganizationName  string
	Bio               string
	ProfilePictureURL string
}

// userFromProfileRow translates a storage-convention row into a User.
// Pure field mapping, no decisions.
func userFromProfileRow(acct store.Account, row store.Row) *User {
	u := &User{
		ID:    acct.ID,
		Email: acct.Email,
	}
	u.Name = rowString(row, "display_name")
	u.Role = constants.Role(rowString(row, "role"))
	u.OrganizationName = rowString(row, "organization_name")
	u.Bio = rowString(row, "bio")
	u.ProfilePictureURL = rowString(row, "profile_picture_url")
	return u
}

// orphanUser is the minimal record for an account with no profile row,
// distinguishable from "still loading" because User is non-nil while
// Role stays empty.
func orphanUser(acct store.Account) *User {
	return &User{
		ID:    acct.ID,
		Email: acct.Email,
		Name:  localPartOf(acct.Email),
	}
}

func localPartOf(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

func rowString(row store.Row, key string) string {
	if v, ok := row[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
