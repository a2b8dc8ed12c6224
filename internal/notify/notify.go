// Package notify holds transient per-client notifications shown on the next rendered view.
package notify

import "sync"

// Level is the notification severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// maxPending bounds the queue; the oldest notification is dropped first.
const maxPending = 20

// Notification is one transient message.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Queue is a per-client notification queue. A nil *Queue discards everything.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a notification.
func (q *Queue) Push(level Level, msg string) {
	if q == nil || msg == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, Notification{Level: level, Message: msg})
	if len(q.items) > maxPending {
		q.items = q.items[len(q.items)-maxPending:]
	}
}

func (q *Queue) Success(msg string) { q.Push(LevelSuccess, msg) }
func (q *Queue) Error(msg string)   { q.Push(LevelError, msg) }
func (q *Queue) Warning(msg string) { q.Push(LevelWarning, msg) }
func (q *Queue) Info(msg string)    { q.Push(LevelInfo, msg) }

// Drain returns and removes all pending notifications.
func (q *Queue) Drain() []Notification {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}
