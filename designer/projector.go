package designer

import (
	"sync"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/sirupsen/logrus"
)

// Projector maintains the wall currently being edited and keeps the
// visible elements/wallpaper view in step with the WallStore entry for
// that wall. The target of a write is resolved from the latest selection
// at commit time, never from the selection captured when the edit began,
// so edits queued behind debounced work still land on the right wall.
type Projector struct {
	mu        sync.Mutex
	walls     *WallStore
	selected  core.Wall
	elements  []core.Element
	wallpaper *string
}

// NewProjector returns a projector with no wall selected and an empty view.
func NewProjector(walls *WallStore) *Projector {
	return &Projector{walls: walls, elements: []core.Element{}}
}

// SelectWall switches the active view to w, loading its stored design.
// Selecting the empty wall presents an empty canvas without touching the
// store. Edits on the wall being left are already committed, so nothing
// is lost here.
func (p *Projector) SelectWall(w core.Wall) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.selected = w
	if !w.Valid() {
		p.elements = []core.Element{}
		p.wallpaper = nil
		return
	}

	d := p.walls.Get(w)
	p.elements = d.Elements
	p.wallpaper = d.Wallpaper
	logrus.WithFields(logrus.Fields{
		"wall":     w,
		"elements": len(d.Elements),
	}).Debug("Wall selected")
}

// UpdateElements replaces the visible element list and writes it through
// to the store entry for the currently selected wall, preserving that
// wall's wallpaper. With no wall selected the view still updates, but the
// edit is not committed anywhere and is discarded on the next selection.
func (p *Projector) UpdateElements(elements []core.Element) {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := make([]core.Element, len(elements))
	copy(copied, elements)
	p.elements = copied

	target := p.selected
	if !target.Valid() {
		return
	}
	current := p.walls.Get(target)
	p.walls.Set(target, core.WallDesign{Elements: copied, Wallpaper: current.Wallpaper})
}

// UpdateWallpaper is the wallpaper counterpart of UpdateElements: the
// selected wall's elements are preserved.
func (p *Projector) UpdateWallpaper(wallpaper *string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.wallpaper = wallpaper

	target := p.selected
	if !target.Valid() {
		return
	}
	current := p.walls.Get(target)
	p.walls.Set(target, core.WallDesign{Elements: current.Elements, Wallpaper: wallpaper})
}

// Selected returns the wall currently being edited.
func (p *Projector) Selected() core.Wall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Elements returns a copy of the visible element list.
func (p *Projector) Elements() []core.Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.Element, len(p.elements))
	copy(out, p.elements)
	return out
}

// Wallpaper returns the visible wallpaper reference, nil when unset.
func (p *Projector) Wallpaper() *string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wallpaper
}
