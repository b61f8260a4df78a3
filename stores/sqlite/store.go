package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	sessionTableStmt := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		name TEXT,
		room_type TEXT,
		room_length REAL,
		room_width REAL,
		room_height REAL,
		selected_wall TEXT,
		wall_designs BLOB,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (user_id, id)
	);`
	if _, err = db.Exec(sessionTableStmt); err != nil {
		log.Fatalf("failed to create sessions table: %v", err)
	}

	draftTableStmt := `
	CREATE TABLE IF NOT EXISTS drafts (
		user_id TEXT PRIMARY KEY,
		room_type TEXT,
		room_length REAL,
		room_width REAL,
		room_height REAL,
		selected_wall TEXT,
		wall_designs BLOB,
		updated_at DATETIME
	);`
	if _, err = db.Exec(draftTableStmt); err != nil {
		log.Fatalf("failed to create drafts table: %v", err)
	}

	return &sqliteStore{db}
}

func (s *sqliteStore) List(ctx context.Context, userID string) ([]*core.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, room_type, created_at, updated_at FROM sessions WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*core.Session{}
	for rows.Next() {
		var sess core.Session
		sess.UserID = userID
		if err := rows.Scan(&sess.ID, &sess.Name, &sess.RoomType, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

func (s *sqliteStore) Get(ctx context.Context, userID, id string) (*core.Session, error) {
	var sess core.Session
	var wallsBlob []byte
	sess.UserID = userID
	sess.ID = id

	err := s.db.QueryRowContext(ctx,
		`SELECT name, room_type, room_length, room_width, room_height, selected_wall, wall_designs, created_at, updated_at
		 FROM sessions WHERE user_id = ? AND id = ?`, userID, id).
		Scan(&sess.Name, &sess.RoomType, &sess.Dimensions.Length, &sess.Dimensions.Width,
			&sess.Dimensions.Height, &sess.SelectedWall, &wallsBlob, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFound(id)
		}
		return nil, err
	}

	if err := json.Unmarshal(wallsBlob, &sess.Walls); err != nil {
		return nil, fmt.Errorf("corrupt wall designs for session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *sqliteStore) Create(ctx context.Context, session *core.Session) (string, error) {
	id := ulid.Make().String()
	now := time.Now()

	wallsBlob, err := json.Marshal(core.CloneWallDesigns(session.Walls))
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, name, room_type, room_length, room_width, room_height, selected_wall, wall_designs, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, session.UserID, session.Name, session.RoomType,
		session.Dimensions.Length, session.Dimensions.Width, session.Dimensions.Height,
		session.SelectedWall, wallsBlob, now, now)
	if err != nil {
		logrus.WithError(err).Error("Failed to create session")
		return "", err
	}

	session.ID = id
	session.CreatedAt = now
	session.UpdatedAt = now
	logrus.WithFields(logrus.Fields{
		"user_id":    session.UserID,
		"session_id": id,
	}).Info("Session created")
	return id, nil
}

func (s *sqliteStore) Update(ctx context.Context, session *core.Session) error {
	wallsBlob, err := json.Marshal(core.CloneWallDesigns(session.Walls))
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET name = ?, room_type = ?, room_length = ?, room_width = ?, room_height = ?,
		 selected_wall = ?, wall_designs = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		session.Name, session.RoomType,
		session.Dimensions.Length, session.Dimensions.Width, session.Dimensions.Height,
		session.SelectedWall, wallsBlob, time.Now(), session.UserID, session.ID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.NewNotFound(session.ID)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.NewNotFound(id)
	}
	return nil
}

func (s *sqliteStore) GetDraft(ctx context.Context, userID string) (*core.Draft, error) {
	var draft core.Draft
	var wallsBlob []byte
	draft.UserID = userID

	err := s.db.QueryRowContext(ctx,
		`SELECT room_type, room_length, room_width, room_height, selected_wall, wall_designs, updated_at
		 FROM drafts WHERE user_id = ?`, userID).
		Scan(&draft.RoomType, &draft.Dimensions.Length, &draft.Dimensions.Width,
			&draft.Dimensions.Height, &draft.SelectedWall, &wallsBlob, &draft.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &core.NotFoundError{Message: "no draft saved"}
		}
		return nil, err
	}

	if err := json.Unmarshal(wallsBlob, &draft.Walls); err != nil {
		return nil, fmt.Errorf("corrupt wall designs in draft for user %s: %w", userID, err)
	}
	return &draft, nil
}

func (s *sqliteStore) SaveDraft(ctx context.Context, draft *core.Draft) error {
	wallsBlob, err := json.Marshal(core.CloneWallDesigns(draft.Walls))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO drafts (user_id, room_type, room_length, room_width, room_height, selected_wall, wall_designs, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			room_type = excluded.room_type,
			room_length = excluded.room_length,
			room_width = excluded.room_width,
			room_height = excluded.room_height,
			selected_wall = excluded.selected_wall,
			wall_designs = excluded.wall_designs,
			updated_at = excluded.updated_at`,
		draft.UserID, draft.RoomType,
		draft.Dimensions.Length, draft.Dimensions.Width, draft.Dimensions.Height,
		draft.SelectedWall, wallsBlob, time.Now())
	return err
}
