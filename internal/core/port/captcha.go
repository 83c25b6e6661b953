package port

import "github.com/sberbits/exchange/internal/core/domain"

// CaptchaGate issues arithmetic challenges and validates answers with a
// bounded retry budget. It is a pure guard: no side effects beyond its own
// store.
type CaptchaGate interface {
	Create() (token, question string)
	Validate(token, answer string) bool

	// Peek returns the full challenge record, including the answer. For
	// server-side diagnostics only, never exposed in responses.
	Peek(token string) (domain.CaptchaChallenge, bool)
}
