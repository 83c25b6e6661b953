package domain

import "time"

// CaptchaChallenge is one short-lived arithmetic puzzle gating order
// creation. The answer never leaves the server.
type CaptchaChallenge struct {
	Token        string
	Question     string
	Answer       string
	ExpiresAt    time.Time
	AttemptsLeft int
}
