// Package conversation holds the per-conversation state the supervisor
// operates on: turn history, the staged pending action, and the uploaded
// file passed along with the current request.
package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"coursegpt-server/internal/utils/idgen"
)

// ActionKind names the kind of a staged pending action.
type ActionKind string

const (
	ActionIdle         ActionKind = ""
	ActionAnnouncement ActionKind = "announcement"
	ActionQuiz         ActionKind = "quiz"
	ActionAssignment   ActionKind = "assignment"
	ActionPage         ActionKind = "page"
)

// Turn is one user/assistant exchange.
type Turn struct {
	ID        string
	UserText  string
	AgentText string
	Agent     string
	CreatedAt time.Time
}

// Upload is a file attached to the current request. It lives on the
// conversation only for the duration of the turn that carries it, plus
// any staged action that references it.
type Upload struct {
	FileName string
	Content  []byte
	Text     string
}

// PendingAction is a fully-parameterized side effect staged for
// confirmation. At most one exists per conversation.
type PendingAction struct {
	Kind            ActionKind
	CourseName      string
	Title           string
	Body            string
	Points          int
	DueAt           *string
	SubmissionTypes []string
	Upload          *Upload
	StagedAt        time.Time
}

// State is the mutable state of one conversation. The mutex serializes
// whole message turns on this conversation; other conversations are not
// affected.
type State struct {
	ID        string
	Turns     []Turn
	Pending   *PendingAction
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// AppendTurn records a completed exchange.
func (s *State) AppendTurn(userText, agentText, agent string) Turn {
	t := Turn{
		ID:        idgen.MustGenerateSecureID("turn", 16),
		UserText:  userText,
		AgentText: agentText,
		Agent:     agent,
		CreatedAt: time.Now().UTC(),
	}
	s.Turns = append(s.Turns, t)
	s.UpdatedAt = t.CreatedAt
	return t
}

// ContextWindow renders the last n turns as a prompt context block.
// Older turns fall off; an empty history yields an empty string.
func (s *State) ContextWindow(n int) string {
	if n <= 0 || len(s.Turns) == 0 {
		return ""
	}
	start := 0
	if len(s.Turns) > n {
		start = len(s.Turns) - n
	}
	var b strings.Builder
	for _, t := range s.Turns[start:] {
		fmt.Fprintf(&b, "User: %s\n", t.UserText)
		fmt.Fprintf(&b, "Assistant: %s\n", t.AgentText)
	}
	return b.String()
}

// Stage replaces any existing pending action with p and reports whether a
// previously staged action was discarded.
func (s *State) Stage(p *PendingAction) (replaced bool) {
	replaced = s.Pending != nil
	p.StagedAt = time.Now().UTC()
	s.Pending = p
	s.UpdatedAt = p.StagedAt
	return replaced
}

// ClearPending drops the staged action, if any.
func (s *State) ClearPending() {
	s.Pending = nil
	s.UpdatedAt = time.Now().UTC()
}

// Store keeps conversation state in memory, one entry per conversation
// ID. The store lock guards only the map; each conversation carries its
// own lock, so a slow turn on one conversation never stalls another.
type Store struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{states: make(map[string]*State)}
}

// Get returns the state for id, creating it on first use. When id is
// empty a fresh conversation ID is generated.
func (s *Store) Get(id string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = idgen.MustGenerateSecureID("conv", 16)
	}
	st, ok := s.states[id]
	if !ok {
		now := time.Now().UTC()
		st = &State{ID: id, CreatedAt: now, UpdatedAt: now}
		s.states[id] = st
	}
	return st
}

// Lookup returns the state for id without creating one.
func (s *Store) Lookup(id string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	return st, ok
}

// With runs fn while holding the conversation's own lock, so a whole
// request's read-modify-write of one conversation is atomic with
// respect to concurrent requests on the same conversation. Requests on
// other conversations proceed in parallel.
func (s *Store) With(id string, fn func(st *State)) *State {
	st := s.Get(id)
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(st)
	return st
}

// Snapshot copies the turn log and staged action under the conversation
// lock, for read-only callers.
func (s *State) Snapshot() ([]Turn, *PendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)
	return turns, s.Pending
}

// Reset drops the conversation entirely. Resetting an unknown ID is a
// no-op.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}

// ResetAll drops every conversation, staged actions included.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[string]*State)
}
