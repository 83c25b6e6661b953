// Package captcha implements the arithmetic challenge gate guarding order
// creation against naive automation.
package captcha

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sberbits/exchange/internal/core/domain"
)

const (
	challengeTTL    = 5 * time.Minute
	initialAttempts = 3
)

type Store struct {
	mu      sync.Mutex
	entries map[string]domain.CaptchaChallenge
	rnd     *rand.Rand
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]domain.CaptchaChallenge),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Create mints a new addition challenge and returns its token and question.
// The answer stays server-side.
func (s *Store) Create() (token, question string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.rnd.Intn(9) + 1
	b := s.rnd.Intn(9) + 1

	token = uuid.NewString()
	question = fmt.Sprintf("%d + %d = ?", a, b)
	s.entries[token] = domain.CaptchaChallenge{
		Token:        token,
		Question:     question,
		Answer:       strconv.Itoa(a + b),
		ExpiresAt:    s.now().Add(challengeTTL),
		AttemptsLeft: initialAttempts,
	}
	return token, question
}

// Validate checks the answer against the stored challenge. A correct answer
// consumes the challenge; a wrong one burns an attempt and deletes the
// challenge once the budget is exhausted. Expired entries are evicted here,
// lazily; there is no background sweep.
func (s *Store) Validate(token, answer string) bool {
	if token == "" || answer == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return false
	}
	if s.now().After(entry.ExpiresAt) {
		delete(s.entries, token)
		return false
	}

	// Numeric comparison is forgiving about leading zeros and whitespace.
	want, err := strconv.Atoi(entry.Answer)
	if err != nil {
		delete(s.entries, token)
		return false
	}
	got, err := strconv.Atoi(strings.TrimSpace(answer))
	if err == nil && got == want {
		delete(s.entries, token)
		return true
	}

	entry.AttemptsLeft--
	if entry.AttemptsLeft <= 0 {
		delete(s.entries, token)
	} else {
		s.entries[token] = entry
	}
	return false
}

// Peek returns the stored challenge, including the true answer. Diagnostic
// use only.
func (s *Store) Peek(token string) (domain.CaptchaChallenge, bool) {
	if token == "" {
		return domain.CaptchaChallenge{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	return entry, ok
}
