package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Wall identifies one of the four fixed faces of a room. The empty value
// means no wall is selected.
type Wall string

const (
	WallNone  Wall = ""
	WallFront Wall = "front"
	WallBack  Wall = "back"
	WallLeft  Wall = "left"
	WallRight Wall = "right"
)

// AllWalls returns the four addressable faces in rendering order.
func AllWalls() []Wall {
	return []Wall{WallFront, WallBack, WallLeft, WallRight}
}

// Valid reports whether w names one of the four faces.
func (w Wall) Valid() bool {
	switch w {
	case WallFront, WallBack, WallLeft, WallRight:
		return true
	}
	return false
}

// ElementKind is the type of a placed decorative item.
type ElementKind string

const (
	ElementImage   ElementKind = "image"
	ElementSticker ElementKind = "sticker"
	ElementFrame   ElementKind = "frame"
)

type (
	// Element is a single positioned decorative item on a wall. The ID is
	// generated client-side and is immutable once assigned.
	Element struct {
		ID          string      `json:"id"`
		Kind        ElementKind `json:"type"`
		Content     string      `json:"content,omitempty"`
		X           float64     `json:"x"`
		Y           float64     `json:"y"`
		Width       float64     `json:"width"`
		Height      float64     `json:"height"`
		FrameType   string      `json:"frameType,omitempty"`
		BorderColor string      `json:"borderColor,omitempty"`
	}

	// WallDesign is the full content of one wall: the z-ordered element
	// list plus an optional wallpaper reference.
	WallDesign struct {
		Elements  []Element `json:"elements"`
		Wallpaper *string   `json:"wallpaper"`
	}

	// RoomDimensions are the room's length, width and height in meters.
	RoomDimensions struct {
		Length float64 `json:"length"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}

	// Session is the persisted unit: a named snapshot of the room and all
	// four wall designs. ID is assigned by the store on create.
	Session struct {
		ID           string              `json:"id"`
		UserID       string              `json:"-"`
		Name         string              `json:"session_name"`
		RoomType     string              `json:"room_type"`
		Dimensions   RoomDimensions      `json:"room_dimensions"`
		SelectedWall Wall                `json:"selected_wall"`
		Walls        map[Wall]WallDesign `json:"wall_designs,omitempty"`
		CreatedAt    time.Time           `json:"created_at"`
		UpdatedAt    time.Time           `json:"updated_at"`
	}

	// SessionSummary is a list-view row for a stored session.
	SessionSummary struct {
		ID        string    `json:"id"`
		Name      string    `json:"session_name"`
		RoomType  string    `json:"room_type"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// Draft is the single-slot autosaved design for a user, keyed by the
	// user identity rather than a session id.
	Draft struct {
		UserID       string              `json:"-"`
		RoomType     string              `json:"roomType"`
		Dimensions   RoomDimensions      `json:"roomDimensions"`
		SelectedWall Wall                `json:"selectedWall"`
		Walls        map[Wall]WallDesign `json:"wallDesigns"`
		UpdatedAt    time.Time           `json:"-"`
	}

	// SessionStore defines the persistence layer for named sessions.
	// All operations are scoped to a specific user.
	SessionStore interface {
		// List returns all sessions owned by a user, without wall payloads.
		List(ctx context.Context, userID string) ([]*Session, error)

		// Get returns a full session by its ID, ensuring it belongs to the user.
		Get(ctx context.Context, userID, id string) (*Session, error)

		// Create stores a new session and returns its assigned id.
		Create(ctx context.Context, session *Session) (string, error)

		// Update replaces an existing session identified by session.ID.
		Update(ctx context.Context, session *Session) error

		// Delete removes a session, ensuring it belongs to the user.
		Delete(ctx context.Context, userID, id string) error
	}

	// DraftStore persists the per-user autosave draft.
	DraftStore interface {
		// GetDraft returns the user's current draft, or a NotFoundError if
		// the user has never autosaved.
		GetDraft(ctx context.Context, userID string) (*Draft, error)

		// SaveDraft overwrites the user's draft.
		SaveDraft(ctx context.Context, draft *Draft) error
	}
)

// DefaultDimensions returns the 8x8x4 room used until the user picks sizes.
func DefaultDimensions() RoomDimensions {
	return RoomDimensions{Length: 8, Width: 8, Height: 4}
}

// IsZero reports whether no dimension has been set.
func (d RoomDimensions) IsZero() bool {
	return d == RoomDimensions{}
}

// EmptyWallDesign returns a design with no elements and no wallpaper.
func EmptyWallDesign() WallDesign {
	return WallDesign{Elements: []Element{}}
}

// EmptyWallDesigns returns a mapping with all four walls present and empty.
func EmptyWallDesigns() map[Wall]WallDesign {
	designs := make(map[Wall]WallDesign, 4)
	for _, w := range AllWalls() {
		designs[w] = EmptyWallDesign()
	}
	return designs
}

// IsEmpty reports whether the design has no elements and no wallpaper.
func (d WallDesign) IsEmpty() bool {
	return len(d.Elements) == 0 && d.Wallpaper == nil
}

// Clone returns a copy whose element slice does not alias the original.
func (d WallDesign) Clone() WallDesign {
	out := WallDesign{Elements: make([]Element, len(d.Elements))}
	copy(out.Elements, d.Elements)
	if d.Wallpaper != nil {
		wp := *d.Wallpaper
		out.Wallpaper = &wp
	}
	return out
}

// CloneWallDesigns deep-copies a wall mapping, filling in any missing wall
// with an empty design so all four keys always exist.
func CloneWallDesigns(designs map[Wall]WallDesign) map[Wall]WallDesign {
	out := make(map[Wall]WallDesign, 4)
	for _, w := range AllWalls() {
		if d, ok := designs[w]; ok {
			out[w] = d.Clone()
		} else {
			out[w] = EmptyWallDesign()
		}
	}
	return out
}

// NewElementID generates a globally unique element identifier.
func NewElementID() string {
	return uuid.NewString()
}

// NewImageElement places an image at the default spawn position.
func NewImageElement(content string) Element {
	return Element{
		ID:      NewElementID(),
		Kind:    ElementImage,
		Content: content,
		X:       50, Y: 50,
		Width: 200, Height: 200,
	}
}

// NewStickerElement places a sticker at the default spawn position.
func NewStickerElement(content string) Element {
	return Element{
		ID:      NewElementID(),
		Kind:    ElementSticker,
		Content: content,
		X:       50, Y: 50,
		Width: 200, Height: 200,
	}
}

// NewFrameElement places an empty frame with the given border color.
func NewFrameElement(frameType, borderColor string) Element {
	return Element{
		ID:        NewElementID(),
		Kind:      ElementFrame,
		FrameType: frameType,
		X:         100, Y: 100,
		Width: 200, Height: 200,
		BorderColor: borderColor,
	}
}

// Summary converts a stored session into its list-view row.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:        s.ID,
		Name:      s.Name,
		RoomType:  s.RoomType,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// DisplayName is the list label, falling back to "{roomType} Room - {date}"
// when the session was saved without a name.
func (s SessionSummary) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	roomType := s.RoomType
	if roomType == "" {
		roomType = "Unknown"
	}
	return fmt.Sprintf("%s Room - %s", roomType, s.CreatedAt.Format("1/2/2006"))
}

// IsUpdated reports whether the session has been saved again since creation.
func (s SessionSummary) IsUpdated() bool {
	return !s.UpdatedAt.Equal(s.CreatedAt)
}
