package utils

import (
	"time"
)

// Session and cookie constants
const (
	// SessionTTL is the lifetime of a session from the moment it is issued (30 days)
	SessionTTL = 30 * 24 * time.Hour

	// SessionTTLSeconds is the session lifetime in seconds, used for cookie Max-Age
	SessionTTLSeconds = 30 * 24 * 3600

	// SessionCookieName is the name of the http-only cookie carrying the session token
	SessionCookieName = "lg_session"

	// SessionTokenBytes is the number of random bytes in a session token (256 bits)
	SessionTokenBytes = 32
)

// Short link constants
const (
	// ShortCodeLength is the length of generated short codes
	ShortCodeLength = 7

	// ShortCodeMaxAttempts bounds collision retries when generating a random code
	ShortCodeMaxAttempts = 5
)

// Score weights applied by the atomic counter updates. Score is derived from
// the stats counters and must stay consistent with them, so the weights live
// next to the increments rather than in config.
const (
	ScorePerProfileView = 1
	ScorePerLinkClick   = 5
	ScorePerFollower    = 10
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
