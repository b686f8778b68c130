package design

import (
	"time"

	"github.com/google/uuid"
)

// DefaultColor is the mug body color a fresh design starts with.
const DefaultColor = "#ffffff"

// Default text styling applied when text is first added.
const (
	DefaultFont      = "helvetiker"
	DefaultTextSize  = 0.12
	DefaultTextColor = "#202020"
)

// Position is a 3-axis placement on the mug surface.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// TextCustomization is the optional text block applied to a design.
type TextCustomization struct {
	Content  string   `json:"content"`
	Font     string   `json:"font"`
	Size     float64  `json:"size"`
	Color    string   `json:"color"`
	Position Position `json:"position"`
}

// Design is the customization record for one mug: the single source of
// truth the rendering surface reads every frame.
type Design struct {
	ID        uuid.UUID          `json:"id"`
	Color     string             `json:"color"`
	Text      *TextCustomization `json:"text,omitempty"`
	ImageURL  string             `json:"image_url,omitempty"`
	RenderURL string             `json:"render_url,omitempty"`
	Complete  bool               `json:"complete"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewDesign creates a design with a fresh identity and default values.
func NewDesign(now time.Time) Design {
	return Design{
		ID:        uuid.New(),
		Color:     DefaultColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasImage reports whether an uploaded or generated image reference is set.
func (d Design) HasImage() bool {
	return d.ImageURL != ""
}

// HasText reports whether a text customization is present.
func (d Design) HasText() bool {
	return d.Text != nil && d.Text.Content != ""
}

func (d Design) clone() Design {
	out := d
	if d.Text != nil {
		text := *d.Text
		out.Text = &text
	}
	return out
}
