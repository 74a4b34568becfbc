package relay

import "sync"

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxTurns bounds the conversation window; oldest turns are evicted first.
const maxTurns = 10

// Turn is one role-tagged message in the conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Window is the bounded in-memory turn history used to build completion
// context. It lives for the process lifetime and is safe for concurrent use.
type Window struct {
	mu    sync.Mutex
	turns []Turn
}

// NewWindow creates an empty conversation window.
func NewWindow() *Window {
	return &Window{turns: make([]Turn, 0, maxTurns)}
}

// Append pushes a turn and truncates to the most recent turns.
func (w *Window) Append(role, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.turns = append(w.turns, Turn{Role: role, Text: text})
	if len(w.turns) > maxTurns {
		w.turns = w.turns[len(w.turns)-maxTurns:]
	}
}

// Snapshot returns a copy of the turns in chronological order, oldest first.
func (w *Window) Snapshot() []Turn {
	w.mu.Lock()
	defer w.mu.Unlock()

	result := make([]Turn, len(w.turns))
	copy(result, w.turns)
	return result
}

// Len returns the number of turns currently held.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.turns)
}
