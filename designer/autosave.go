package designer

import (
	"context"
	"sync"
	"time"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/sirupsen/logrus"
)

// DefaultAutosaveDelay is the debounce window between the last wall
// mutation and the draft push.
const DefaultAutosaveDelay = time.Second

// Autosaver pushes a full draft snapshot to the DraftStore after a quiet
// period. Each Arm cancels the pending timer and starts a new one
// (trailing-edge debounce), so at most one push is pending at a time.
// Failures are logged only; a background sync must never interrupt
// editing.
type Autosaver struct {
	mu       sync.Mutex
	timer    *time.Timer
	delay    time.Duration
	drafts   core.DraftStore
	snapshot func() *core.Draft
	stopped  bool
}

// NewAutosaver builds a scheduler that persists snapshot() via drafts
// after delay. A non-positive delay falls back to DefaultAutosaveDelay.
func NewAutosaver(drafts core.DraftStore, snapshot func() *core.Draft, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{delay: delay, drafts: drafts, snapshot: snapshot}
}

// Arm cancels any pending push and schedules a new one.
func (a *Autosaver) Arm() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.flush)
}

// Stop cancels any pending push and prevents further arming.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autosaver) flush() {
	draft := a.snapshot()
	if draft == nil {
		return
	}
	if err := a.drafts.SaveDraft(context.Background(), draft); err != nil {
		logrus.WithError(err).Warn("Failed to autosave draft")
		return
	}
	logrus.WithField("selected_wall", draft.SelectedWall).Debug("Draft autosaved")
}
