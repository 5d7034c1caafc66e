package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
	"github.com/Chxpz/futmatrix-whop-agents/internal/infra/config"
)

// stubProvider fails a fixed number of times, then succeeds.
type stubProvider struct {
	failures int
	calls    int
}

func (s *stubProvider) Chat(context.Context, domain.ChatRequest) (*domain.ChatResponse, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("provider down")
	}
	return &domain.ChatResponse{Content: "ok"}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func TestCircuitBreakerPassesThrough(t *testing.T) {
	cb := NewCircuitBreakerProvider(&stubProvider{}, config.BreakerConfig{}, newTestLogger())

	resp, err := cb.Chat(context.Background(), domain.ChatRequest{})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q", resp.Content)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("State = %v, want closed", cb.State())
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	stub := &stubProvider{failures: 100}
	cb := NewCircuitBreakerProvider(stub, config.BreakerConfig{
		MaxFailures: 3,
		Timeout:     time.Minute,
	}, newTestLogger())

	for i := 0; i < 3; i++ {
		if _, err := cb.Chat(context.Background(), domain.ChatRequest{}); err == nil {
			t.Fatalf("call %d should fail", i)
		}
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	// While open, calls fail fast without reaching the provider, and the
	// failure reads as an overload so callers can classify it.
	callsBefore := stub.calls
	_, err := cb.Chat(context.Background(), domain.ChatRequest{})
	if err == nil {
		t.Fatal("Chat should fail while circuit is open")
	}
	if !errors.Is(err, domain.ErrProviderOverload) {
		t.Errorf("error %v should wrap ErrProviderOverload", err)
	}
	if stub.calls != callsBefore {
		t.Errorf("provider was called while circuit open")
	}
}

func TestCircuitBreakerRecovers(t *testing.T) {
	stub := &stubProvider{failures: 2}
	cb := NewCircuitBreakerProvider(stub, config.BreakerConfig{
		MaxFailures: 2,
		Timeout:     20 * time.Millisecond,
	}, newTestLogger())

	for i := 0; i < 2; i++ {
		cb.Chat(context.Background(), domain.ChatRequest{})
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	// After the open timeout, a probe is admitted and succeeds.
	time.Sleep(30 * time.Millisecond)
	resp, err := cb.Chat(context.Background(), domain.ChatRequest{})
	if err != nil {
		t.Fatalf("Chat after recovery: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q", resp.Content)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("State = %v, want closed", cb.State())
	}
}
