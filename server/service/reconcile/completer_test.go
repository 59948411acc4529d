package reconcile

import (
	"context"
	"strings"
	"sync"

	"github.com/rfones/scheduler/server/ai"
)

// stubCompleter is a deterministic stand-in for the reasoning service.
// It implements the same contract: role-tagged messages in, a JSON
// object out.
type stubCompleter struct {
	mu    sync.Mutex
	calls []ai.Message
	fn    func(messages []ai.Message) (string, error)
}

func (s *stubCompleter) CompleteJSON(_ context.Context, messages []ai.Message) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, messages...)
	s.mu.Unlock()
	return s.fn(messages)
}

// callCount returns the number of system prompts seen, i.e. the number
// of exchanges.
func (s *stubCompleter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, msg := range s.calls {
		if msg.Role == "system" {
			count++
		}
	}
	return count
}

// systemPrompt extracts the system message from one exchange.
func systemPrompt(messages []ai.Message) string {
	for _, msg := range messages {
		if msg.Role == "system" {
			return msg.Content
		}
	}
	return ""
}

// isHorizonPrompt distinguishes the two prompt templates.
func isHorizonPrompt(messages []ai.Message) bool {
	return strings.Contains(systemPrompt(messages), "which days are affected")
}

// promptDay extracts the target date from a day reconciliation prompt.
func promptDay(messages []ai.Message) string {
	prompt := systemPrompt(messages)
	const marker = "The day is "
	idx := strings.Index(prompt, marker)
	if idx == -1 {
		return ""
	}
	rest := prompt[idx+len(marker):]
	return strings.TrimSuffix(strings.SplitN(rest, "\n", 2)[0], ".")
}
