package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixEventList   CachePrefix = "EVENTS_"
	CachePrefixEventDetail CachePrefix = "EVENT_"
	CachePrefixVenueList   CachePrefix = "VENUES_"
	CachePrefixAnalytics   CachePrefix = "ANALYTICS_OVERVIEW"
)

// Cookie names used by the auth surface.
const (
	ClientCookieName  = "evently_client"
	SessionCookieName = "evently_session"
)

// ConfirmationStream is the Redis stream carrying ticket purchase
// confirmations to the background worker.
const ConfirmationStream = "ticket_confirmations"
