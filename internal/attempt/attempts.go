package attempt

import "sync"

// Attempts holds the open attempts of one client, one per quiz.
type Attempts struct {
	mu    sync.Mutex
	flows map[int]*Flow
}

// NewAttempts creates an empty registry.
func NewAttempts() *Attempts {
	return &Attempts{flows: make(map[int]*Flow)}
}

// Get returns the open attempt for quizID, or nil.
func (a *Attempts) Get(quizID int) *Flow {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flows[quizID]
}

// Open returns the reusable attempt for quizID, or stores the one built by
// create. A replaced attempt is closed first.
func (a *Attempts) Open(quizID int, create func() *Flow) (f *Flow, created bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cur, ok := a.flows[quizID]; ok {
		if cur.Reusable() {
			return cur, false
		}
		cur.Close()
	}
	f = create()
	a.flows[quizID] = f
	return f, true
}

// Close closes and forgets the attempt for quizID.
func (a *Attempts) Close(quizID int) {
	a.mu.Lock()
	f := a.flows[quizID]
	delete(a.flows, quizID)
	a.mu.Unlock()
	if f != nil {
		f.Close()
	}
}

// CloseAll closes every open attempt.
func (a *Attempts) CloseAll() {
	a.mu.Lock()
	flows := a.flows
	a.flows = make(map[int]*Flow)
	a.mu.Unlock()
	for _, f := range flows {
		f.Close()
	}
}
