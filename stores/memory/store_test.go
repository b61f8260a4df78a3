package memory

import (
	"context"
	"testing"

	"github.com/Khushitha-V/altarmaker/core"
)

func newSession(userID, name string) *core.Session {
	walls := core.EmptyWallDesigns()
	walls[core.WallFront] = core.WallDesign{
		Elements: []core.Element{{ID: "e1", Kind: core.ElementSticker, X: 50, Y: 50, Width: 200, Height: 200}},
	}
	return &core.Session{
		UserID:       userID,
		Name:         name,
		RoomType:     "Pooja",
		Dimensions:   core.DefaultDimensions(),
		SelectedWall: core.WallFront,
		Walls:        walls,
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id, err := s.Create(ctx, newSession("user-1", "Diwali Altar"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned an empty id")
	}

	got, err := s.Get(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Name != "Diwali Altar" || got.RoomType != "Pooja" {
		t.Errorf("Get() returned %q/%q", got.Name, got.RoomType)
	}
	if len(got.Walls[core.WallFront].Elements) != 1 {
		t.Error("Get() dropped the wall payload")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("Create() did not stamp timestamps")
	}

	got.Name = "Renamed"
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	updated, err := s.Get(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("Get() after update failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Update() did not persist the new name, got %q", updated.Name)
	}
	if !updated.CreatedAt.Equal(got.CreatedAt) {
		t.Error("Update() changed the creation time")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("Update() did not advance the update time")
	}

	if err := s.Delete(ctx, "user-1", id); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := s.Get(ctx, "user-1", id); !core.IsNotFound(err) {
		t.Errorf("Get() after delete returned %v, want NotFoundError", err)
	}
}

func TestListStripsWallPayloads(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Create(ctx, newSession("user-1", "A")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := s.Create(ctx, newSession("user-1", "B")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	sessions, err := s.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("List() returned %d sessions, want 2", len(sessions))
	}
	for _, sess := range sessions {
		if sess.Walls != nil {
			t.Errorf("List() row %q carries a wall payload", sess.Name)
		}
	}
}

func TestUserIsolation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id, err := s.Create(ctx, newSession("alice", "Mine"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, err := s.Get(ctx, "bob", id); !core.IsNotFound(err) {
		t.Errorf("cross-user Get() returned %v, want NotFoundError", err)
	}
	if err := s.Delete(ctx, "bob", id); !core.IsNotFound(err) {
		t.Errorf("cross-user Delete() returned %v, want NotFoundError", err)
	}

	sessions, err := s.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("cross-user List() returned %d sessions", len(sessions))
	}
}

func TestNotFoundPaths(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "user-1", "missing"); !core.IsNotFound(err) {
		t.Errorf("Get() returned %v, want NotFoundError", err)
	}
	if err := s.Update(ctx, &core.Session{ID: "missing", UserID: "user-1"}); !core.IsNotFound(err) {
		t.Errorf("Update() returned %v, want NotFoundError", err)
	}
	if err := s.Delete(ctx, "user-1", "missing"); !core.IsNotFound(err) {
		t.Errorf("Delete() returned %v, want NotFoundError", err)
	}
}

func TestCreateRejectsEmptyUser(t *testing.T) {
	s := NewStore()
	if _, err := s.Create(context.Background(), &core.Session{Name: "orphan"}); !core.IsValidation(err) {
		t.Errorf("Create() without a user returned %v, want ValidationError", err)
	}
}

func TestStoredSessionIsIsolatedFromCaller(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	sess := newSession("user-1", "Original")
	id, err := s.Create(ctx, sess)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// Mutating the caller's copy must not reach the stored one.
	front := sess.Walls[core.WallFront]
	front.Elements[0].Content = "tampered"
	sess.Name = "tampered"

	got, err := s.Get(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Name != "Original" || got.Walls[core.WallFront].Elements[0].Content == "tampered" {
		t.Error("stored session shares memory with the caller's copy")
	}
}

func TestDraftUpsert(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.GetDraft(ctx, "user-1"); !core.IsNotFound(err) {
		t.Fatalf("GetDraft() with no draft returned %v, want NotFoundError", err)
	}

	first := &core.Draft{UserID: "user-1", RoomType: "Pooja", Walls: core.EmptyWallDesigns()}
	if err := s.SaveDraft(ctx, first); err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	second := &core.Draft{UserID: "user-1", RoomType: "Meditation", Walls: core.EmptyWallDesigns()}
	if err := s.SaveDraft(ctx, second); err != nil {
		t.Fatalf("second SaveDraft() failed: %v", err)
	}

	got, err := s.GetDraft(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetDraft() failed: %v", err)
	}
	if got.RoomType != "Meditation" {
		t.Errorf("draft slot holds %q, want the latest write", got.RoomType)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("SaveDraft() did not stamp the update time")
	}

	if err := s.SaveDraft(ctx, &core.Draft{}); !core.IsValidation(err) {
		t.Errorf("SaveDraft() without a user returned %v, want ValidationError", err)
	}
}
