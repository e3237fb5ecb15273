package constants

import "time"

// Token constants
const (
	// TokenDomain is both the issuer and the audience of session tokens
	TokenDomain = "trustocracy.org"

	// TokenTTL is how long an issued session token stays valid
	TokenTTL = time.Hour

	// TokenCookieName is the cookie the web client stores the session token in
	TokenCookieName = "trustoToken"
)

// HTTP constants
const (
	// RequestIDHeader carries the per-request id set by the request logger
	RequestIDHeader = "X-Request-ID"

	// UserIDKey is the gin context key holding the authenticated Person id
	UserIDKey = "userId"
)
