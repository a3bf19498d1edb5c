package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	calls   int
	prompts []string
	respond func(call int) (string, error)
}

func (m *stubModel) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	return m.respond(m.calls)
}

func newTestService(m *stubModel) (*Service, *[]time.Duration) {
	s := NewService(m)
	s.now = func() time.Time { return time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC) }
	sleeps := &[]time.Duration{}
	s.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return s, sleeps
}

func TestExtractSuccess(t *testing.T) {
	m := &stubModel{respond: func(int) (string, error) { return `{"skills": []}`, nil }}
	s, sleeps := newTestService(m)

	res := s.Extract(context.Background(), "resume text")
	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, `{"skills": []}`, res.JSON)
	assert.Equal(t, 1, m.calls)
	assert.Empty(t, *sleeps)
}

func TestExtractPromptContents(t *testing.T) {
	m := &stubModel{respond: func(int) (string, error) { return "{}", nil }}
	s, _ := newTestService(m)

	s.Extract(context.Background(), "RESUME BODY")
	require.Len(t, m.prompts, 1)
	prompt := m.prompts[0]

	assert.Contains(t, prompt, "RESUME BODY")
	// Present end dates resolve against the request-time month.
	assert.Contains(t, prompt, "use May 2025 as end date")
	assert.Contains(t, prompt, "Return ONLY JSON, no markdown")
}

func TestExtractTruncatesPromptInput(t *testing.T) {
	m := &stubModel{respond: func(int) (string, error) { return "{}", nil }}
	s, _ := newTestService(m)

	text := strings.Repeat("a", maxPromptText) + strings.Repeat("b", 1000)
	s.Extract(context.Background(), text)
	require.Len(t, m.prompts, 1)

	assert.Contains(t, m.prompts[0], strings.Repeat("a", maxPromptText)+"\n... (truncated for processing)")
	assert.NotContains(t, m.prompts[0], "bbbbb")
}

func TestExtractQuotaNoRetryNoFallback(t *testing.T) {
	m := &stubModel{respond: func(int) (string, error) {
		return "", fmt.Errorf("%w: check billing", ErrQuota)
	}}
	s, sleeps := newTestService(m)

	res := s.Extract(context.Background(), "text")
	assert.Equal(t, SourceError, res.Source)
	assert.ErrorIs(t, res.Err, ErrQuota)
	assert.Equal(t, 1, m.calls)
	assert.Empty(t, *sleeps)

	// Quota results still carry a small JSON error payload for the caller.
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.JSON), &payload))
	assert.Equal(t, "API quota exceeded", payload["error"])
}

func TestExtractSafetyImmediateFallback(t *testing.T) {
	m := &stubModel{respond: func(int) (string, error) {
		return "", fmt.Errorf("%w: blocked", ErrSafety)
	}}
	s, sleeps := newTestService(m)

	res := s.Extract(context.Background(), "John Smith\njohn@example.com")
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, 1, m.calls)
	assert.Empty(t, *sleeps)
	assert.Contains(t, res.JSON, "Fallback extraction used")
	assert.Contains(t, res.JSON, "john@example.com")
}

func TestExtractTimeoutRetriesThenFallback(t *testing.T) {
	m := &stubModel{respond: func(int) (string, error) {
		return "", fmt.Errorf("%w: attempt", ErrTimeout)
	}}
	s, sleeps := newTestService(m)

	res := s.Extract(context.Background(), "text")
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, maxAttempts, m.calls)
	assert.Equal(t, []time.Duration{timeoutBackoff, timeoutBackoff}, *sleeps)
}

func TestExtractGenericRetriesThenFallback(t *testing.T) {
	m := &stubModel{respond: func(int) (string, error) {
		return "", errors.New("transport broke")
	}}
	s, sleeps := newTestService(m)

	res := s.Extract(context.Background(), "text")
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, maxAttempts, m.calls)
	assert.Equal(t, []time.Duration{genericBackoff, genericBackoff}, *sleeps)
}

func TestExtractRecoversOnLaterAttempt(t *testing.T) {
	m := &stubModel{respond: func(call int) (string, error) {
		if call < 3 {
			return "", errors.New("flaky")
		}
		return `{"ok": true}`, nil
	}}
	s, _ := newTestService(m)

	res := s.Extract(context.Background(), "text")
	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, 3, m.calls)
}

func TestExtractExpiredDeadlineReportsTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	m := &stubModel{respond: func(int) (string, error) {
		return "", fmt.Errorf("%w: %v", ErrTimeout, context.DeadlineExceeded)
	}}
	s, sleeps := newTestService(m)

	res := s.Extract(ctx, "text")
	assert.Equal(t, SourceError, res.Source)
	assert.ErrorIs(t, res.Err, ErrTimeout)
	assert.Equal(t, 1, m.calls)
	assert.Empty(t, *sleeps)
}
