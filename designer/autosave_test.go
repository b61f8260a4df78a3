package designer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Khushitha-V/altarmaker/core"
)

// recordingDraftStore counts SaveDraft calls and keeps the drafts it saw.
type recordingDraftStore struct {
	mu      sync.Mutex
	saved   []*core.Draft
	saveErr error
}

func (s *recordingDraftStore) GetDraft(ctx context.Context, userID string) (*core.Draft, error) {
	return nil, &core.NotFoundError{Message: "no draft saved"}
}

func (s *recordingDraftStore) SaveDraft(ctx context.Context, draft *core.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, draft)
	return nil
}

func (s *recordingDraftStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *recordingDraftStore) last() *core.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil
	}
	return s.saved[len(s.saved)-1]
}

func TestAutosaver_DebounceCollapsesBurst(t *testing.T) {
	drafts := &recordingDraftStore{}

	var mu sync.Mutex
	roomType := ""
	snapshot := func() *core.Draft {
		mu.Lock()
		defer mu.Unlock()
		return &core.Draft{UserID: "user-1", RoomType: roomType}
	}

	a := NewAutosaver(drafts, snapshot, 60*time.Millisecond)
	defer a.Stop()

	// Ten mutations inside the debounce window must collapse to one push
	// carrying the final state.
	for i := 0; i < 10; i++ {
		mu.Lock()
		roomType = string(rune('a' + i))
		mu.Unlock()
		a.Arm()
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)

	if got := drafts.calls(); got != 1 {
		t.Fatalf("burst produced %d draft pushes, want 1", got)
	}
	if last := drafts.last(); last.RoomType != "j" {
		t.Errorf("push carried room type %q, want the final mutation %q", last.RoomType, "j")
	}
}

func TestAutosaver_SeparateQuietPeriodsPushSeparately(t *testing.T) {
	drafts := &recordingDraftStore{}
	a := NewAutosaver(drafts, func() *core.Draft { return &core.Draft{UserID: "user-1"} }, 30*time.Millisecond)
	defer a.Stop()

	a.Arm()
	time.Sleep(150 * time.Millisecond)
	a.Arm()
	time.Sleep(150 * time.Millisecond)

	if got := drafts.calls(); got != 2 {
		t.Errorf("two quiet periods produced %d pushes, want 2", got)
	}
}

func TestAutosaver_StopCancelsPending(t *testing.T) {
	drafts := &recordingDraftStore{}
	a := NewAutosaver(drafts, func() *core.Draft { return &core.Draft{UserID: "user-1"} }, 30*time.Millisecond)

	a.Arm()
	a.Stop()
	time.Sleep(150 * time.Millisecond)

	if got := drafts.calls(); got != 0 {
		t.Errorf("stopped scheduler still pushed %d drafts", got)
	}

	// Arming after Stop stays a no-op.
	a.Arm()
	time.Sleep(100 * time.Millisecond)
	if got := drafts.calls(); got != 0 {
		t.Errorf("arm after stop pushed %d drafts", got)
	}
}

func TestAutosaver_FailureIsSwallowed(t *testing.T) {
	drafts := &recordingDraftStore{saveErr: errors.New("backend down")}
	a := NewAutosaver(drafts, func() *core.Draft { return &core.Draft{UserID: "user-1"} }, 20*time.Millisecond)
	defer a.Stop()

	a.Arm()
	time.Sleep(100 * time.Millisecond)

	// The failed push must not break later ones.
	drafts.mu.Lock()
	drafts.saveErr = nil
	drafts.mu.Unlock()

	a.Arm()
	time.Sleep(100 * time.Millisecond)
	if got := drafts.calls(); got != 1 {
		t.Errorf("recovered scheduler pushed %d drafts, want 1", got)
	}
}

func TestWallMutationsArmAutosave(t *testing.T) {
	drafts := &recordingDraftStore{}
	c := NewController(nil, drafts, nil, nil, Options{UserID: "user-1", AutosaveDelay: 40 * time.Millisecond})
	defer c.Close()

	c.View().SelectWall(core.WallFront)
	for i := 0; i < 5; i++ {
		c.View().UpdateElements([]core.Element{core.NewStickerElement("/marigold3.png")})
	}

	time.Sleep(250 * time.Millisecond)

	if got := drafts.calls(); got != 1 {
		t.Fatalf("wall mutations produced %d draft pushes, want 1", got)
	}
	last := drafts.last()
	if last.UserID != "user-1" {
		t.Errorf("draft pushed for user %q", last.UserID)
	}
	if len(last.Walls[core.WallFront].Elements) != 1 {
		t.Error("draft push did not carry the final front wall state")
	}
	if last.SelectedWall != core.WallFront {
		t.Errorf("draft push carried selected wall %q", last.SelectedWall)
	}
}
