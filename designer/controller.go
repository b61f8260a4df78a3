package designer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/sirupsen/logrus"
)

// binding is the explicit session-identity state: either unbound, or
// bound to a server-side id with its name. Save dispatches on the tag, so
// "update with no id" and "bound but no name" states cannot exist.
type binding struct {
	bound bool
	id    string
	name  string
}

// Options configures a Controller.
type Options struct {
	// UserID is the owner key for every repository call.
	UserID string

	// AutosaveDelay overrides the draft debounce window. Zero keeps
	// DefaultAutosaveDelay.
	AutosaveDelay time.Duration

	// Reauthenticate, when set, is invoked instead of a modal whenever a
	// repository call fails with an UnauthorizedError.
	Reauthenticate func()
}

// Controller orchestrates the named-session lifecycle: list, save, save
// as new, load, delete and start-new. It owns the WallStore, the
// Projector and the Autosaver, and talks to the remote store through the
// SessionStore/DraftStore interfaces.
//
// Identity-mutating operations are serialized by an operation mutex so a
// slow create can never race a subsequent load and leave the bound
// identity inconsistent.
type Controller struct {
	op sync.Mutex // serializes lifecycle operations
	mu sync.Mutex // guards room fields and the identity binding

	walls    *WallStore
	view     *Projector
	autosave *Autosaver
	sessions core.SessionStore
	drafts   core.DraftStore
	prompts  Prompter
	notify   Notifier
	userID   string
	reauth   func()

	roomType string
	dims     core.RoomDimensions
	binding  binding
}

// NewController wires a fresh engine: empty walls, no selection, unbound
// identity, autosave armed on every wall mutation.
func NewController(sessions core.SessionStore, drafts core.DraftStore, prompts Prompter, notify Notifier, opts Options) *Controller {
	if notify == nil {
		notify = NopNotifier{}
	}
	c := &Controller{
		walls:    NewWallStore(),
		sessions: sessions,
		drafts:   drafts,
		prompts:  prompts,
		notify:   notify,
		userID:   opts.UserID,
		reauth:   opts.Reauthenticate,
		dims:     core.DefaultDimensions(),
	}
	c.view = NewProjector(c.walls)
	c.autosave = NewAutosaver(drafts, c.snapshotDraft, opts.AutosaveDelay)
	c.walls.OnChange(c.autosave.Arm)
	return c
}

// Walls exposes the wall design store.
func (c *Controller) Walls() *WallStore { return c.walls }

// View exposes the active surface projector.
func (c *Controller) View() *Projector { return c.view }

// Close cancels any pending autosave.
func (c *Controller) Close() { c.autosave.Stop() }

// RoomType returns the current room type, which may be empty.
func (c *Controller) RoomType() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomType
}

// SetRoomType records the user's room choice.
func (c *Controller) SetRoomType(roomType string) {
	c.mu.Lock()
	c.roomType = roomType
	c.mu.Unlock()
}

// Dimensions returns the current room dimensions.
func (c *Controller) Dimensions() core.RoomDimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dims
}

// SetDimensions records the user's room sizes.
func (c *Controller) SetDimensions(dims core.RoomDimensions) {
	c.mu.Lock()
	c.dims = dims
	c.mu.Unlock()
}

// BoundSession reports the identity the local state is saved under, if any.
func (c *Controller) BoundSession() (id, name string, bound bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding.id, c.binding.name, c.binding.bound
}

// List fetches all sessions owned by the user. On failure it reports
// through the notifier and returns an empty list alongside the error.
func (c *Controller) List(ctx context.Context) ([]core.SessionSummary, error) {
	sessions, err := c.sessions.List(ctx, c.userID)
	if err != nil {
		c.reportFailure("Error", "loading sessions", err)
		return []core.SessionSummary{}, err
	}

	summaries := make([]core.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Summary())
	}
	return summaries, nil
}

// Save persists the current room under the bound identity, or prompts
// for a name and creates a new session when unbound. A blank name aborts
// before any network call.
func (c *Controller) Save(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	b := c.binding
	c.mu.Unlock()

	if b.bound {
		return c.update(ctx, b)
	}

	name, ok, err := c.promptName(ctx, "Save Session", "Enter a name for this session:")
	if err != nil || !ok {
		return err
	}
	return c.create(ctx, name, "Room design saved as session!")
}

// SaveAsNew always prompts for a name and always creates, regardless of
// any bound identity. On success the binding moves to the new session.
func (c *Controller) SaveAsNew(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()

	name, ok, err := c.promptName(ctx, "Save as New Session", "Enter a name for this new session:")
	if err != nil || !ok {
		return err
	}
	return c.create(ctx, name, "Room design saved as new session!")
}

// Load fetches the full session behind summary and replaces all local
// state with it. On failure every piece of current local state is left
// untouched.
func (c *Controller) Load(ctx context.Context, summary core.SessionSummary) error {
	c.op.Lock()
	defer c.op.Unlock()

	sess, err := c.sessions.Get(ctx, c.userID, summary.ID)
	if err != nil {
		c.reportFailure("Error", "loading session", err)
		return err
	}

	dims := sess.Dimensions
	if dims.IsZero() {
		dims = core.DefaultDimensions()
	}

	c.mu.Lock()
	c.roomType = sess.RoomType
	c.dims = dims
	c.binding = binding{bound: true, id: sess.ID, name: sess.Name}
	c.mu.Unlock()

	c.walls.ReplaceAll(sess.Walls)
	c.view.SelectWall(sess.SelectedWall)

	logrus.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"room_type":  sess.RoomType,
	}).Info("Session loaded")
	c.notify.Notify("Success", fmt.Sprintf("Room design loaded successfully from session: %s", summary.DisplayName()), SeveritySuccess)
	return nil
}

// Delete removes the session behind summary from the remote store. The
// active canvas and the bound identity are left untouched even when the
// deleted session is the bound one: deletion manages the listing, it does
// not unload.
func (c *Controller) Delete(ctx context.Context, summary core.SessionSummary) error {
	c.op.Lock()
	defer c.op.Unlock()

	if err := c.sessions.Delete(ctx, c.userID, summary.ID); err != nil {
		c.reportFailure("Error", "deleting session", err)
		return err
	}

	logrus.WithField("session_id", summary.ID).Info("Session deleted")
	c.notify.Notify("Success", fmt.Sprintf("Session %q deleted successfully.", summary.DisplayName()), SeveritySuccess)
	return nil
}

// StartNew asks for confirmation, then resets the room to defaults,
// clears every wall and the active view, and unbinds the session
// identity.
func (c *Controller) StartNew(ctx context.Context) error {
	confirmed, err := c.prompts.Confirm(ctx, "Start New Session",
		"Are you sure you want to start a new session? This will clear all current wall designs.")
	if err != nil || !confirmed {
		return err
	}

	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	c.roomType = ""
	c.dims = core.DefaultDimensions()
	c.binding = binding{}
	c.mu.Unlock()

	c.walls.Reset()
	c.view.SelectWall(core.WallNone)

	logrus.Info("New session started")
	c.notify.Notify("Success", "New session started! All walls have been cleared.", SeveritySuccess)
	return nil
}

// RestoreDraft repopulates local state from the user's autosaved draft,
// typically at startup. A missing draft is not an error; other failures
// are logged only, since the draft channel is best-effort.
func (c *Controller) RestoreDraft(ctx context.Context) error {
	draft, err := c.drafts.GetDraft(ctx, c.userID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil
		}
		logrus.WithError(err).Warn("Failed to restore draft")
		return err
	}

	dims := draft.Dimensions
	if dims.IsZero() {
		dims = core.DefaultDimensions()
	}

	c.mu.Lock()
	c.roomType = draft.RoomType
	c.dims = dims
	c.mu.Unlock()

	c.walls.ReplaceAll(draft.Walls)
	c.view.SelectWall(draft.SelectedWall)
	return nil
}

// promptName collects and validates a session name. ok=false means the
// user cancelled; a blank name is rejected with a ValidationError before
// any network traffic.
func (c *Controller) promptName(ctx context.Context, title, message string) (string, bool, error) {
	name, ok, err := c.prompts.Input(ctx, title, message, c.defaultSessionName())
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		c.notify.Notify("Session Name Required", "Session name is required. Save cancelled.", SeverityError)
		return "", false, &core.ValidationError{Message: "session name is required"}
	}
	return name, true, nil
}

func (c *Controller) defaultSessionName() string {
	c.mu.Lock()
	roomType := c.roomType
	c.mu.Unlock()
	if roomType == "" {
		roomType = "Room"
	}
	return fmt.Sprintf("%s - %s", roomType, time.Now().Format("1/2/2006, 3:04:05 PM"))
}

func (c *Controller) create(ctx context.Context, name, successMessage string) error {
	sess := c.snapshotSession(name)
	id, err := c.sessions.Create(ctx, sess)
	if err != nil {
		c.reportFailure("Error", "saving session", err)
		return err
	}

	c.mu.Lock()
	c.binding = binding{bound: true, id: id, name: name}
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id":   id,
		"session_name": name,
	}).Info("Session created")
	c.notify.Notify("Success", successMessage, SeveritySuccess)
	return nil
}

func (c *Controller) update(ctx context.Context, b binding) error {
	sess := c.snapshotSession(b.name)
	sess.ID = b.id
	if err := c.sessions.Update(ctx, sess); err != nil {
		c.reportFailure("Error", "saving session", err)
		return err
	}

	logrus.WithField("session_id", b.id).Info("Session updated")
	c.notify.Notify("Success", "Room design updated as session!", SeveritySuccess)
	return nil
}

// snapshotSession captures the full current state as a session payload.
// Wall edits commit synchronously into the WallStore, so the snapshot
// always reflects the latest edits at the moment it is taken.
func (c *Controller) snapshotSession(name string) *core.Session {
	c.mu.Lock()
	roomType, dims := c.roomType, c.dims
	c.mu.Unlock()

	return &core.Session{
		UserID:       c.userID,
		Name:         name,
		RoomType:     roomType,
		Dimensions:   dims,
		SelectedWall: c.view.Selected(),
		Walls:        c.walls.Snapshot(),
	}
}

func (c *Controller) snapshotDraft() *core.Draft {
	c.mu.Lock()
	roomType, dims := c.roomType, c.dims
	c.mu.Unlock()

	return &core.Draft{
		UserID:       c.userID,
		RoomType:     roomType,
		Dimensions:   dims,
		SelectedWall: c.view.Selected(),
		Walls:        c.walls.Snapshot(),
	}
}

// reportFailure routes a repository error to the right surface: expired
// auth goes to the host's re-authentication flow, structured server
// messages are shown verbatim, transport failures get a generic retry
// message.
func (c *Controller) reportFailure(title, action string, err error) {
	if core.IsUnauthorized(err) {
		logrus.WithError(err).Warn("Repository call unauthorized")
		if c.reauth != nil {
			c.reauth()
		}
		return
	}

	if msg := structuredMessage(err); msg != "" {
		c.notify.Notify(title, fmt.Sprintf("Error %s: %s", action, msg), SeverityError)
		return
	}
	logrus.WithError(err).WithField("action", action).Error("Repository call failed")
	c.notify.Notify(title, fmt.Sprintf("Error %s. Please try again.", action), SeverityError)
}

// structuredMessage extracts a server-supplied error message, or ""
// for transport-level failures without one.
func structuredMessage(err error) string {
	var serverErr *core.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	var conflictErr *core.ConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr.Message
	}
	var notFoundErr *core.NotFoundError
	if errors.As(err, &notFoundErr) {
		return notFoundErr.Message
	}
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return ""
}
