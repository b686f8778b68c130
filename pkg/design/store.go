package design

import (
	"sync"

	"github.com/prietto/mugforge/pkg/timekit"
)

// Field identifies which part of the design a change touched.
type Field string

const (
	FieldColor        Field = "color"
	FieldText         Field = "text"
	FieldFont         Field = "font"
	FieldTextSize     Field = "text_size"
	FieldTextColor    Field = "text_color"
	FieldTextPosition Field = "text_position"
	FieldImage        Field = "image"
	FieldRender       Field = "render"
	FieldComplete     Field = "complete"
	FieldMultiView    Field = "multi_view"
	FieldAll          Field = "all"
)

// Change describes a single committed mutation. Design is a snapshot taken
// after the mutation, so listeners never observe a half-applied update.
type Change struct {
	Field  Field
	Design Design

	// ImageAdded is set only on the absent-to-present transition of the
	// image reference; re-setting an already present image leaves it false.
	ImageAdded bool
}

// Listener observes committed changes. Listeners run synchronously on the
// mutating call after the store lock is released; they must not call back
// into the store's mutators.
type Listener func(Change)

// Patch is a partial field set for bulk updates. Nil fields are left
// untouched.
type Patch struct {
	Color        *string
	Text         *string
	Font         *string
	TextSize     *float64
	TextColor    *string
	TextPosition *Position
	ImageURL     *string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the clock used for mutation timestamps.
func WithClock(clock timekit.Clock) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithListener registers a change listener at construction.
func WithListener(l Listener) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// Store owns the mutable Design Record and its multi-view set. Mutations
// are atomic; readers get snapshots. Every mutation refreshes UpdatedAt;
// identity changes only on Reset.
type Store struct {
	mu        sync.RWMutex
	design    Design
	multiView MultiViewSet
	clock     timekit.Clock
	listeners []Listener
}

// NewStore creates a store holding a fresh default design.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{clock: timekit.NewClock()}
	for _, opt := range opts {
		opt(s)
	}
	s.design = NewDesign(s.clock.Now())
	return s
}

// Subscribe registers a change listener.
func (s *Store) Subscribe(l Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current design.
func (s *Store) Snapshot() Design {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.design.clone()
}

// MultiView returns a copy of the current multi-view set.
func (s *Store) MultiView() MultiViewSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return MultiViewSet{views: s.multiView.Views()}
}

// SetColor sets the mug body color.
func (s *Store) SetColor(color string) {
	s.mutate(FieldColor, func(d *Design) bool {
		d.Color = color
		return false
	})
}

// SetText sets the text content, creating the text block with default
// styling on first use.
func (s *Store) SetText(content string) {
	s.mutate(FieldText, func(d *Design) bool {
		ensureText(d).Content = content
		return false
	})
}

// SetFont sets the text font.
func (s *Store) SetFont(font string) {
	s.mutate(FieldFont, func(d *Design) bool {
		ensureText(d).Font = font
		return false
	})
}

// SetTextSize sets the text size.
func (s *Store) SetTextSize(size float64) {
	s.mutate(FieldTextSize, func(d *Design) bool {
		ensureText(d).Size = size
		return false
	})
}

// SetTextColor sets the text color.
func (s *Store) SetTextColor(color string) {
	s.mutate(FieldTextColor, func(d *Design) bool {
		ensureText(d).Color = color
		return false
	})
}

// SetTextPosition sets the 3-axis text placement.
func (s *Store) SetTextPosition(pos Position) {
	s.mutate(FieldTextPosition, func(d *Design) bool {
		ensureText(d).Position = pos
		return false
	})
}

// SetImage sets the uploaded/generated image reference.
func (s *Store) SetImage(url string) {
	s.mutate(FieldImage, func(d *Design) bool {
		added := d.ImageURL == "" && url != ""
		d.ImageURL = url
		return added
	})
}

// SetRender commits the full-mug render reference.
func (s *Store) SetRender(url string) {
	s.mutate(FieldRender, func(d *Design) bool {
		d.RenderURL = url
		return false
	})
}

// MarkComplete flags the design as finished.
func (s *Store) MarkComplete() {
	s.mutate(FieldComplete, func(d *Design) bool {
		d.Complete = true
		return false
	})
}

// Update applies a partial patch as one atomic mutation.
func (s *Store) Update(patch Patch) {
	s.mutate(FieldAll, func(d *Design) bool {
		added := false
		if patch.Color != nil {
			d.Color = *patch.Color
		}
		if patch.Text != nil {
			ensureText(d).Content = *patch.Text
		}
		if patch.Font != nil {
			ensureText(d).Font = *patch.Font
		}
		if patch.TextSize != nil {
			ensureText(d).Size = *patch.TextSize
		}
		if patch.TextColor != nil {
			ensureText(d).Color = *patch.TextColor
		}
		if patch.TextPosition != nil {
			ensureText(d).Position = *patch.TextPosition
		}
		if patch.ImageURL != nil {
			added = d.ImageURL == "" && *patch.ImageURL != ""
			d.ImageURL = *patch.ImageURL
		}
		return added
	})
}

// ResetImage clears the image reference.
func (s *Store) ResetImage() {
	s.mutate(FieldImage, func(d *Design) bool {
		d.ImageURL = ""
		return false
	})
}

// ResetColor restores the default mug color.
func (s *Store) ResetColor() {
	s.mutate(FieldColor, func(d *Design) bool {
		d.Color = DefaultColor
		return false
	})
}

// ResetText removes the text customization entirely.
func (s *Store) ResetText() {
	s.mutate(FieldText, func(d *Design) bool {
		d.Text = nil
		return false
	})
}

// Reset discards the design: new identity, default values, empty
// multi-view set.
func (s *Store) Reset() {
	s.mu.Lock()
	now := s.clock.Now()
	s.design = NewDesign(now)
	s.multiView = MultiViewSet{}
	change := Change{Field: FieldAll, Design: s.design.clone()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, change)
}

// SetMultiView replaces the multi-view set with front plus extras. Extras
// for an angle already present replace the prior entry.
func (s *Store) SetMultiView(front View, extras ...View) error {
	set, err := NewMultiViewSet(front)
	if err != nil {
		return err
	}
	for _, v := range extras {
		if err := set.Merge(v); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.multiView = set
	change := Change{Field: FieldMultiView, Design: s.design.clone()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, change)
	return nil
}

// ClearMultiView empties the multi-view set.
func (s *Store) ClearMultiView() {
	s.mu.Lock()
	s.multiView = MultiViewSet{}
	change := Change{Field: FieldMultiView, Design: s.design.clone()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, change)
}

// mutate applies fn under the lock, bumps UpdatedAt, and notifies listeners
// with a post-mutation snapshot. fn reports whether the image reference
// transitioned from absent to present.
func (s *Store) mutate(field Field, fn func(*Design) bool) {
	s.mu.Lock()
	added := fn(&s.design)
	s.design.UpdatedAt = s.clock.Now()
	change := Change{Field: field, Design: s.design.clone(), ImageAdded: added}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, change)
}

func (s *Store) listenersLocked() []Listener {
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func notify(listeners []Listener, change Change) {
	for _, l := range listeners {
		l(change)
	}
}

func ensureText(d *Design) *TextCustomization {
	if d.Text == nil {
		d.Text = &TextCustomization{
			Font:  DefaultFont,
			Size:  DefaultTextSize,
			Color: DefaultTextColor,
		}
	}
	return d.Text
}
