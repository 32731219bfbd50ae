package session

import (
	"sync"
	"time"
)

// task is a restartable one-shot timer with a single owner. Restarting
// replaces any armed timer, so a task never leaks timers across re-arms.
// Safe to restart from inside its own fire callback.
type task struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (t *task) Restart(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	if d < 0 {
		d = 0
	}
	t.timer = time.AfterFunc(d, fn)
}

func (t *task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
