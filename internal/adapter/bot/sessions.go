package bot

import "sync"

type PendingKind int

const (
	// PendingPaymentLink: the next message from the chat is the
	// proof-of-payment link for OrderID (or /skip).
	PendingPaymentLink PendingKind = iota + 1
	// PendingRateValue: the next message is the new RUB price for Currency.
	PendingRateValue
)

// PendingAction is one outstanding multi-step admin operation. At most one
// exists per chat at a time.
type PendingAction struct {
	Kind     PendingKind
	OrderID  string
	Currency string
}

// Sessions keeps the per-chat conversation state of the admin bot.
type Sessions struct {
	mu      sync.Mutex
	pending map[int64]PendingAction
}

func NewSessions() *Sessions {
	return &Sessions{pending: make(map[int64]PendingAction)}
}

func (s *Sessions) Get(chatID int64) (PendingAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, ok := s.pending[chatID]
	return action, ok
}

// Set replaces any previous pending action for the chat.
func (s *Sessions) Set(chatID int64, action PendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[chatID] = action
}

func (s *Sessions) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, chatID)
}
