package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// memStore implements SessionStore and DraftStore in process memory.
type memStore struct {
	mu sync.RWMutex
	// sessions is keyed by userID, then by session id.
	sessions map[string]map[string]*core.Session
	drafts   map[string]*core.Draft
}

// NewStore creates a new in-memory store.
func NewStore() *memStore {
	return &memStore{
		sessions: make(map[string]map[string]*core.Session),
		drafts:   make(map[string]*core.Draft),
	}
}

// List returns all sessions owned by a user, without wall payloads.
func (s *memStore) List(ctx context.Context, userID string) ([]*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userSessions, ok := s.sessions[userID]
	if !ok {
		return []*core.Session{}, nil
	}

	sessions := make([]*core.Session, 0, len(userSessions))
	for _, sess := range userSessions {
		// The wall payload stays out of list rows to keep them light.
		row := *sess
		row.Walls = nil
		sessions = append(sessions, &row)
	}

	logrus.WithField("user_id", userID).Debugf("Listed %d sessions", len(sessions))
	return sessions, nil
}

// Get returns a full session by its ID, ensuring it belongs to the user.
func (s *memStore) Get(ctx context.Context, userID, id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := logrus.WithFields(logrus.Fields{"user_id": userID, "session_id": id})

	userSessions, ok := s.sessions[userID]
	if !ok {
		log.Warn("User has no sessions")
		return nil, core.NewNotFound(id)
	}
	sess, ok := userSessions[id]
	if !ok {
		log.Warn("Session not found for user")
		return nil, core.NewNotFound(id)
	}

	out := *sess
	out.Walls = core.CloneWallDesigns(sess.Walls)
	return &out, nil
}

// Create stores a new session under a freshly minted id.
func (s *memStore) Create(ctx context.Context, session *core.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.UserID == "" {
		return "", &core.ValidationError{Message: "user id cannot be empty"}
	}

	userSessions, ok := s.sessions[session.UserID]
	if !ok {
		userSessions = make(map[string]*core.Session)
		s.sessions[session.UserID] = userSessions
	}

	id := ulid.Make().String()
	now := time.Now()

	stored := *session
	stored.ID = id
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Walls = core.CloneWallDesigns(session.Walls)
	userSessions[id] = &stored

	session.ID = id
	session.CreatedAt = now
	session.UpdatedAt = now

	logrus.WithFields(logrus.Fields{
		"user_id":    session.UserID,
		"session_id": id,
	}).Info("Session created")
	return id, nil
}

// Update replaces an existing session, preserving its creation time.
func (s *memStore) Update(ctx context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{"user_id": session.UserID, "session_id": session.ID})

	userSessions, ok := s.sessions[session.UserID]
	if !ok {
		log.Warn("User has no sessions to update")
		return core.NewNotFound(session.ID)
	}
	existing, ok := userSessions[session.ID]
	if !ok {
		log.Warn("Session not found for update")
		return core.NewNotFound(session.ID)
	}

	stored := *session
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	stored.Walls = core.CloneWallDesigns(session.Walls)
	userSessions[session.ID] = &stored

	log.Info("Session updated")
	return nil
}

// Delete removes a session, ensuring it belongs to the user.
func (s *memStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{"user_id": userID, "session_id": id})

	userSessions, ok := s.sessions[userID]
	if !ok {
		log.Warn("User has no sessions to delete from")
		return core.NewNotFound(id)
	}
	if _, ok := userSessions[id]; !ok {
		log.Warn("Session not found for deletion")
		return core.NewNotFound(id)
	}

	delete(userSessions, id)
	log.Info("Session deleted")
	return nil
}

// GetDraft returns the user's autosaved draft.
func (s *memStore) GetDraft(ctx context.Context, userID string) (*core.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[userID]
	if !ok {
		return nil, &core.NotFoundError{Message: "no draft saved"}
	}

	out := *draft
	out.Walls = core.CloneWallDesigns(draft.Walls)
	return &out, nil
}

// SaveDraft overwrites the user's single draft slot.
func (s *memStore) SaveDraft(ctx context.Context, draft *core.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if draft.UserID == "" {
		return &core.ValidationError{Message: "user id cannot be empty"}
	}

	stored := *draft
	stored.UpdatedAt = time.Now()
	stored.Walls = core.CloneWallDesigns(draft.Walls)
	s.drafts[draft.UserID] = &stored

	logrus.WithField("user_id", draft.UserID).Debug("Draft saved")
	return nil
}
