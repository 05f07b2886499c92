package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is how many interactions are kept per user.
const DefaultLimit = 50

// Record is one completed turn.
type Record struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
	UserInput     string    `json:"user_input"`
	AgentResponse string    `json:"agent_response"`
	AgentID       string    `json:"agent_id"`
	Actions       []string  `json:"actions_taken"`
}

// Store keeps per-user interaction history. Implementations are safe for
// concurrent use.
type Store interface {
	Append(ctx context.Context, r Record) error
	// Recent returns up to n records for userID, oldest first.
	Recent(ctx context.Context, userID string, n int) ([]Record, error)
	Close() error
}

// prepare fills in the ID and timestamp of a record about to be stored.
func prepare(r Record) Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	r.Actions = slices.Clone(r.Actions)
	if r.Actions == nil {
		r.Actions = []string{}
	}
	return r
}

// MemStore is an in-process Store bounded to limit records per user.
type MemStore struct {
	mu     sync.RWMutex
	limit  int
	byUser map[string][]Record
}

func NewMemStore(limit int) *MemStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemStore{limit: limit, byUser: make(map[string][]Record)}
}

func (s *MemStore) Append(_ context.Context, r Record) error {
	r = prepare(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := append(s.byUser[r.UserID], r)
	if len(recs) > s.limit {
		recs = slices.Clone(recs[len(recs)-s.limit:])
	}
	s.byUser[r.UserID] = recs
	return nil
}

func (s *MemStore) Recent(_ context.Context, userID string, n int) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.byUser[userID]
	if len(recs) > n {
		recs = recs[len(recs)-n:]
	}
	out := make([]Record, len(recs))
	for i, r := range recs {
		r.Actions = slices.Clone(r.Actions)
		out[i] = r
	}
	return out, nil
}

func (s *MemStore) Close() error { return nil }

// Condense renders records as the "User: ... Assistant: ..." context string
// handed to the general conversation model.
func Condense(recs []Record) string {
	parts := make([]string, 0, len(recs))
	for _, r := range recs {
		parts = append(parts, "User: "+r.UserInput+" Assistant: "+r.AgentResponse)
	}
	return strings.Join(parts, " ")
}
