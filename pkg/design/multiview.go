package design

import "time"

// ViewAngle identifies one of the alternate camera-angle renders.
type ViewAngle string

const (
	AngleFront  ViewAngle = "front"
	AngleSide   ViewAngle = "side"
	AngleHandle ViewAngle = "handle"
)

// KnownAngle reports whether a is one of the three supported angles.
func KnownAngle(a ViewAngle) bool {
	switch a {
	case AngleFront, AngleSide, AngleHandle:
		return true
	}
	return false
}

// View is one generated camera-angle render.
type View struct {
	Angle       ViewAngle `json:"angle"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MultiViewSet is the ordered collection of per-angle renders for one
// design. A non-empty set always starts with the front view; each angle
// appears at most once.
type MultiViewSet struct {
	views []View
}

// NewMultiViewSet creates a set anchored by the front view.
func NewMultiViewSet(front View) (MultiViewSet, error) {
	if front.Angle != AngleFront {
		return MultiViewSet{}, ErrMissingFrontView
	}
	if front.URL == "" {
		return MultiViewSet{}, ErrEmptyViewURL
	}
	return MultiViewSet{views: []View{front}}, nil
}

// Merge adds or replaces the entry for v's angle. Merging into an empty set
// requires v to be the front anchor; merging a duplicate angle replaces the
// existing entry in place rather than appending.
func (s *MultiViewSet) Merge(v View) error {
	if !KnownAngle(v.Angle) {
		return ErrUnknownAngle
	}
	if v.URL == "" {
		return ErrEmptyViewURL
	}
	if len(s.views) == 0 && v.Angle != AngleFront {
		return ErrMissingFrontView
	}

	for i := range s.views {
		if s.views[i].Angle == v.Angle {
			s.views[i] = v
			return nil
		}
	}
	s.views = append(s.views, v)
	return nil
}

// Len returns the number of views in the set.
func (s MultiViewSet) Len() int {
	return len(s.views)
}

// Empty reports whether the set holds no views.
func (s MultiViewSet) Empty() bool {
	return len(s.views) == 0
}

// Front returns the anchoring front view.
func (s MultiViewSet) Front() (View, bool) {
	if len(s.views) == 0 {
		return View{}, false
	}
	return s.views[0], true
}

// Get returns the view for the given angle.
func (s MultiViewSet) Get(angle ViewAngle) (View, bool) {
	for _, v := range s.views {
		if v.Angle == angle {
			return v, true
		}
	}
	return View{}, false
}

// Views returns a copy of the ordered views.
func (s MultiViewSet) Views() []View {
	out := make([]View, len(s.views))
	copy(out, s.views)
	return out
}
