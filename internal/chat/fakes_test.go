package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dost-app/dost/internal/conversation"
	"github.com/dost-app/dost/internal/llm"
	"github.com/dost-app/dost/internal/search"
)

type memoryStore struct {
	mu        sync.Mutex
	turns     []conversation.Turn
	appendErr error
	recentErr error
}

func (s *memoryStore) Append(_ context.Context, role conversation.Role, content string) (conversation.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return conversation.Turn{}, s.appendErr
	}
	t := conversation.Turn{ID: int64(len(s.turns) + 1), Role: role, Content: content, CreatedAt: time.Now()}
	s.turns = append(s.turns, t)
	return t, nil
}

func (s *memoryStore) Recent(_ context.Context, limit int) ([]conversation.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	start := max(len(s.turns)-limit, 0)
	return append([]conversation.Turn(nil), s.turns[start:]...), nil
}

func (s *memoryStore) Close() error { return nil }

func (s *memoryStore) all() []conversation.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]conversation.Turn(nil), s.turns...)
}

// scriptedModel answers each Complete call with the next scripted response.
type scriptedModel struct {
	mu        sync.Mutex
	responses []llm.Response
	errs      []error
	requests  []llm.Request
}

func (m *scriptedModel) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.requests)
	m.requests = append(m.requests, req)
	if i < len(m.errs) && m.errs[i] != nil {
		return llm.Response{}, m.errs[i]
	}
	if i >= len(m.responses) {
		return llm.Response{}, errors.New("unexpected model call")
	}
	return m.responses[i], nil
}

type fakeSearcher struct {
	results []search.Result
	err     error
	calls   int
	query   string
	count   int
}

func (f *fakeSearcher) Search(_ context.Context, query string, count int) ([]search.Result, error) {
	f.calls++
	f.query = query
	f.count = count
	return f.results, f.err
}
