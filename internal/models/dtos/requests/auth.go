package requests

type SignUpRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	Name              string `json:"name" validate:"required"`
	Role              string `json:"role" validate:"required,oneof=attendee organizer"`
	OrganizationName  string `json:"organization_name,omitempty"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty" validate:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SelectRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=attendee organizer"`
}

type ReassignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=attendee organizer admin"`
}
