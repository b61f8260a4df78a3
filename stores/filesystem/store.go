package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type fsStore struct {
	basePath string
}

// storedSession is the on-disk shape; UserID is implied by the directory
// but kept in the file so a session survives being moved around.
type storedSession struct {
	core.Session
	UserID string `json:"user_id"`
}

type storedDraft struct {
	core.Draft
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStore creates a new filesystem-based store rooted at basePath.
func NewStore(basePath string) *fsStore {
	for _, dir := range []string{basePath, filepath.Join(basePath, "sessions"), filepath.Join(basePath, "drafts")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create storage directory: %v", err)
		}
	}
	return &fsStore{basePath: basePath}
}

func (s *fsStore) userSessionPath(userID string) string {
	return filepath.Join(s.basePath, "sessions", userID)
}

// resolve joins path parts and rejects anything escaping the base path.
func (s *fsStore) resolve(parts ...string) (string, error) {
	p := filepath.Join(parts...)
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, absBase) {
		return "", fmt.Errorf("invalid path: access denied")
	}
	return absPath, nil
}

func (s *fsStore) List(ctx context.Context, userID string) ([]*core.Session, error) {
	userPath := s.userSessionPath(userID)
	log := logrus.WithFields(logrus.Fields{"user_id": userID, "path": userPath})

	files, err := os.ReadDir(userPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*core.Session{}, nil
		}
		log.WithError(err).Error("Failed to read user session directory")
		return nil, err
	}

	sessions := make([]*core.Session, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(userPath, file.Name()))
		if err != nil {
			log.WithError(err).Warnf("Failed to read session file %s, skipping", file.Name())
			continue
		}
		var stored storedSession
		if err := json.Unmarshal(data, &stored); err != nil {
			log.WithError(err).Warnf("Failed to unmarshal session file %s, skipping", file.Name())
			continue
		}
		sess := stored.Session
		sess.UserID = userID
		sess.Walls = nil
		sessions = append(sessions, &sess)
	}

	log.Debugf("Listed %d sessions", len(sessions))
	return sessions, nil
}

func (s *fsStore) Get(ctx context.Context, userID, id string) (*core.Session, error) {
	filePath, err := s.resolve(s.userSessionPath(userID), id+".json")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFound(id)
		}
		return nil, err
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("corrupt session file for %s: %w", id, err)
	}
	sess := stored.Session
	sess.UserID = userID
	return &sess, nil
}

func (s *fsStore) Create(ctx context.Context, session *core.Session) (string, error) {
	id := ulid.Make().String()
	now := time.Now()

	session.ID = id
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := s.write(session); err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    session.UserID,
		"session_id": id,
	}).Info("Session created")
	return id, nil
}

func (s *fsStore) Update(ctx context.Context, session *core.Session) error {
	existing, err := s.Get(ctx, session.UserID, session.ID)
	if err != nil {
		return err
	}
	session.CreatedAt = existing.CreatedAt
	session.UpdatedAt = time.Now()
	return s.write(session)
}

func (s *fsStore) write(session *core.Session) error {
	userPath := s.userSessionPath(session.UserID)
	if err := os.MkdirAll(userPath, 0755); err != nil {
		return err
	}
	filePath, err := s.resolve(userPath, session.ID+".json")
	if err != nil {
		return err
	}

	data, err := json.Marshal(storedSession{Session: *session, UserID: session.UserID})
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

func (s *fsStore) Delete(ctx context.Context, userID, id string) error {
	filePath, err := s.resolve(s.userSessionPath(userID), id+".json")
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return core.NewNotFound(id)
		}
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "session_id": id}).Info("Session deleted")
	return nil
}

func (s *fsStore) GetDraft(ctx context.Context, userID string) (*core.Draft, error) {
	filePath, err := s.resolve(s.basePath, "drafts", userID+".json")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &core.NotFoundError{Message: "no draft saved"}
		}
		return nil, err
	}

	var stored storedDraft
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("corrupt draft file for user %s: %w", userID, err)
	}
	draft := stored.Draft
	draft.UserID = userID
	draft.UpdatedAt = stored.UpdatedAt
	return &draft, nil
}

func (s *fsStore) SaveDraft(ctx context.Context, draft *core.Draft) error {
	filePath, err := s.resolve(s.basePath, "drafts", draft.UserID+".json")
	if err != nil {
		return err
	}

	data, err := json.Marshal(storedDraft{Draft: *draft, UpdatedAt: time.Now()})
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
