package designer

import (
	"testing"

	"github.com/Khushitha-V/altarmaker/core"
)

func TestNewWallStore_AllWallsPresent(t *testing.T) {
	store := NewWallStore()

	for _, w := range core.AllWalls() {
		d := store.Get(w)
		if !d.IsEmpty() {
			t.Errorf("Get(%q) on a fresh store returned non-empty design", w)
		}
		if d.Elements == nil {
			t.Errorf("Get(%q) returned nil element slice", w)
		}
	}
}

func TestWallStore_GetUnselectedWall(t *testing.T) {
	store := NewWallStore()

	d := store.Get(core.WallNone)
	if !d.IsEmpty() {
		t.Error("Get on the unselected wall should return an empty design")
	}
}

func TestWallStore_SetDoesNotPerturbOtherWalls(t *testing.T) {
	store := NewWallStore()

	frontElement := core.NewStickerElement("/marigold3.png")
	leftWallpaper := "/wallpapers/red.png"
	store.Set(core.WallLeft, core.WallDesign{Elements: []core.Element{}, Wallpaper: &leftWallpaper})

	store.Set(core.WallFront, core.WallDesign{Elements: []core.Element{frontElement}})

	left := store.Get(core.WallLeft)
	if left.Wallpaper == nil || *left.Wallpaper != leftWallpaper {
		t.Error("writing front perturbed the left wall's wallpaper")
	}
	if len(left.Elements) != 0 {
		t.Error("writing front perturbed the left wall's elements")
	}
	for _, w := range []core.Wall{core.WallBack, core.WallRight} {
		if !store.Get(w).IsEmpty() {
			t.Errorf("writing front perturbed wall %q", w)
		}
	}
}

func TestWallStore_SetInvalidWallDropped(t *testing.T) {
	store := NewWallStore()
	fired := 0
	store.OnChange(func() { fired++ })

	store.Set(core.WallNone, core.WallDesign{Elements: []core.Element{core.NewImageElement("/sample1.jpg")}})
	store.Set(core.Wall("ceiling"), core.WallDesign{Elements: []core.Element{core.NewImageElement("/sample1.jpg")}})

	if fired != 0 {
		t.Errorf("invalid-wall writes fired the change hook %d times", fired)
	}
	for _, w := range core.AllWalls() {
		if !store.Get(w).IsEmpty() {
			t.Errorf("invalid-wall write leaked into wall %q", w)
		}
	}
}

func TestWallStore_ReplaceAllFillsMissingWalls(t *testing.T) {
	store := NewWallStore()

	wp := "/wallpapers/gold.png"
	store.ReplaceAll(map[core.Wall]core.WallDesign{
		core.WallBack: {Elements: []core.Element{core.NewImageElement("/diya.png")}, Wallpaper: &wp},
	})

	back := store.Get(core.WallBack)
	if len(back.Elements) != 1 || back.Wallpaper == nil {
		t.Error("ReplaceAll dropped the provided back wall design")
	}
	for _, w := range []core.Wall{core.WallFront, core.WallLeft, core.WallRight} {
		d := store.Get(w)
		if !d.IsEmpty() || d.Elements == nil {
			t.Errorf("ReplaceAll left wall %q without an empty design", w)
		}
	}
}

func TestWallStore_Reset(t *testing.T) {
	store := NewWallStore()
	store.Set(core.WallFront, core.WallDesign{Elements: []core.Element{core.NewImageElement("/sample1.jpg")}})

	store.Reset()

	for _, w := range core.AllWalls() {
		if !store.Get(w).IsEmpty() {
			t.Errorf("Reset left content on wall %q", w)
		}
	}
}

func TestWallStore_OnChangeFiresPerMutation(t *testing.T) {
	store := NewWallStore()
	fired := 0
	store.OnChange(func() { fired++ })

	store.Set(core.WallFront, core.EmptyWallDesign())
	store.ReplaceAll(nil)
	store.Reset()

	if fired != 3 {
		t.Errorf("change hook fired %d times, want 3", fired)
	}
}

func TestWallStore_SnapshotIsDeepCopy(t *testing.T) {
	store := NewWallStore()
	store.Set(core.WallFront, core.WallDesign{Elements: []core.Element{core.NewStickerElement("/marigold3.png")}})

	snap := store.Snapshot()
	snap[core.WallFront].Elements[0].X = 999
	delete(snap, core.WallBack)

	stored := store.Get(core.WallFront)
	if stored.Elements[0].X == 999 {
		t.Error("mutating a snapshot reached back into the store")
	}
	if store.Get(core.WallBack).Elements == nil {
		t.Error("mutating a snapshot removed a wall from the store")
	}
}
