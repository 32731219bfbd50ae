// Package prompt is the headless stand-in for modal dialogs and toasts:
// lifecycle prompts are recorded here and the UI polls and acknowledges
// them over the session endpoints.
package prompt

import (
	"log/slog"
	"sync"
)

// State is the pending prompt snapshot handed to UI consumers.
type State struct {
	SessionExpired bool     `json:"sessionExpired"`
	ExtendOffered  bool     `json:"extendOffered"`
	Notices        []string `json:"notices"`
}

type Recorder struct {
	mu  sync.Mutex
	log *slog.Logger

	expired       bool
	extendOffered bool
	notices       []string
}

func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{log: log}
}

func (r *Recorder) SessionExpired() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = true
	r.log.Info("prompt recorded", "prompt", "session_expired")
}

func (r *Recorder) OfferExtend() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extendOffered = true
	r.log.Info("prompt recorded", "prompt", "extend_offer")
}

func (r *Recorder) Notify(messageKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, messageKey)
	r.log.Info("notice recorded", "message_key", messageKey)
}

func (r *Recorder) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	notices := make([]string, len(r.notices))
	copy(notices, r.notices)
	return State{
		SessionExpired: r.expired,
		ExtendOffered:  r.extendOffered,
		Notices:        notices,
	}
}

// Acknowledge clears all pending prompts, typically after the UI has
// rendered them.
func (r *Recorder) Acknowledge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = false
	r.extendOffered = false
	r.notices = nil
}
