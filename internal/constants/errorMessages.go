package constants

const (
	MsgInvalidCredentials  = "Invalid email or password"
	MsgEmailRequired       = "Email is required"
	MsgAccountExists       = "An account with this email already exists"
	MsgProfileCreateFailed = "Account created but profile setup failed. Please sign up again"
	MsgRoleAlreadySet      = "Role has already been selected for this account"
	MsgNoActiveUser        = "No active user session"
	MsgSalesClosed         = "Ticket sales are not open for this event"
	MsgSoldOut             = "Not enough tickets remaining"
	MsgNotEventOwner       = "Only the organizer who created this event can modify it"
	MsgNotVenueOwner       = "Only the organizer who created this venue can modify it"
)
