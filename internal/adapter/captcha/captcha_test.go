package captcha

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerFor(t *testing.T, s *Store, token string) string {
	t.Helper()
	entry, ok := s.Peek(token)
	require.True(t, ok)
	return entry.Answer
}

func TestCreate(t *testing.T) {
	s := NewStore()

	token, question := s.Create()
	require.NotEmpty(t, token)

	parts := strings.Split(strings.TrimSuffix(question, " = ?"), " + ")
	require.Len(t, parts, 2)
	a, err := strconv.Atoi(parts[0])
	require.NoError(t, err)
	b, err := strconv.Atoi(parts[1])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, a, 1)
	assert.LessOrEqual(t, a, 9)
	assert.GreaterOrEqual(t, b, 1)
	assert.LessOrEqual(t, b, 9)

	assert.Equal(t, strconv.Itoa(a+b), answerFor(t, s, token))
}

func TestValidateConsumesChallenge(t *testing.T) {
	s := NewStore()
	token, _ := s.Create()
	answer := answerFor(t, s, token)

	assert.True(t, s.Validate(token, answer))
	// Second use of the same token fails.
	assert.False(t, s.Validate(token, answer))
	_, ok := s.Peek(token)
	assert.False(t, ok)
}

func TestValidateToleratesWhitespace(t *testing.T) {
	s := NewStore()
	token, _ := s.Create()
	answer := answerFor(t, s, token)

	assert.True(t, s.Validate(token, " "+answer+" "))
}

func TestValidateWrongAnswerBurnsAttempts(t *testing.T) {
	s := NewStore()
	token, _ := s.Create()
	answer := answerFor(t, s, token)

	assert.False(t, s.Validate(token, "99"))
	assert.False(t, s.Validate(token, "99"))

	entry, ok := s.Peek(token)
	require.True(t, ok)
	assert.Equal(t, 1, entry.AttemptsLeft)

	// Third miss exhausts the budget, the challenge is gone and even the
	// true answer stops working.
	assert.False(t, s.Validate(token, "99"))
	_, ok = s.Peek(token)
	assert.False(t, ok)
	assert.False(t, s.Validate(token, answer))
}

func TestValidateExpiredChallenge(t *testing.T) {
	s := NewStore()
	token, _ := s.Create()
	answer := answerFor(t, s, token)

	s.now = func() time.Time { return time.Now().Add(challengeTTL + time.Second) }

	assert.False(t, s.Validate(token, answer))
	_, ok := s.Peek(token)
	assert.False(t, ok, "expired entry must be evicted")
}

func TestValidateUnknownOrEmpty(t *testing.T) {
	s := NewStore()

	assert.False(t, s.Validate("", "5"))
	assert.False(t, s.Validate("no-such-token", "5"))
	token, _ := s.Create()
	assert.False(t, s.Validate(token, ""))
}
