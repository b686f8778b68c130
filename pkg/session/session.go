package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prietto/mugforge/pkg/camera"
	"github.com/prietto/mugforge/pkg/design"
	"github.com/prietto/mugforge/pkg/engagement"
	"github.com/prietto/mugforge/pkg/events"
	"github.com/prietto/mugforge/pkg/generation"
	"github.com/prietto/mugforge/pkg/logger"
	"github.com/prietto/mugforge/pkg/quality"
	"github.com/prietto/mugforge/pkg/ratelimit"
	"github.com/prietto/mugforge/pkg/timekit"
)

// Session is the process-wide container for one configurator visit: it
// owns the design store, the generation orchestrator, the rate-limit
// tracker, both control loops, the engagement scorer, and the event bus,
// wired together at construction. Sub-states are reached through the
// accessors; only the orchestration and controller methods write them.
//
// Sessions are constructible, not global: every New call produces an
// independent container, so tests and multi-visitor servers run sessions
// side by side.
type Session struct {
	id    uuid.UUID
	token string
	clock timekit.Clock
	log   *slog.Logger
	cfg   Config

	mu             sync.Mutex
	createdAt      time.Time
	lastActivityAt time.Time
	expiresAt      time.Time

	client       generation.Client
	designs      *design.Store
	orchestrator *generation.Orchestrator
	limits       *ratelimit.Tracker
	camera       *camera.Controller
	interactions *camera.InteractionTracker
	quality      *quality.Governor
	engagement   *engagement.Scorer
	bus          *events.MemoryBus[events.Event]
}

// New creates a fully wired session. A generation client is required;
// everything else has defaults.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		id:    uuid.New(),
		clock: timekit.NewClock(),
		log:   slog.Default(),
		cfg:   DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg = s.cfg.withDefaults()

	if s.client == nil {
		return nil, ErrNoClient
	}
	if s.token == "" {
		token, err := generateToken()
		if err != nil {
			return nil, err
		}
		s.token = token
	}

	now := s.clock.Now()
	s.createdAt = now
	s.lastActivityAt = now
	s.expiresAt = now.Add(s.cfg.TTL)

	s.log = s.log.With(logger.SessionID(s.id))
	s.bus = events.NewMemoryBus[events.Event](s.cfg.EventBuffer)
	s.limits = ratelimit.NewTracker(s.cfg.GenerationLimit)
	s.engagement = engagement.NewScorer(s.clock)
	s.interactions = camera.NewInteractionTracker(s.clock)

	s.designs = design.NewStore(
		design.WithClock(s.clock),
		design.WithListener(s.onDesignChange),
	)
	s.orchestrator = generation.NewOrchestrator(s.client, s.designs, s.limits,
		generation.WithClock(s.clock),
		generation.WithLogger(s.log),
		generation.WithEmitter(s.onGenerationEvent),
	)
	s.camera = camera.NewController(s.cfg.Camera,
		camera.WithClock(s.clock),
		camera.WithLogger(s.log),
		camera.WithReturned(func() {
			s.publish(events.CameraReturned, nil)
		}),
	)
	s.quality = quality.NewGovernor(s.cfg.Quality,
		quality.WithClock(s.clock),
		quality.WithLogger(s.log),
		quality.WithAdjusted(func(d quality.Decision) {
			s.publish(events.QualityAdjusted, map[string]any{
				"direction":   string(d.Changed),
				"level":       string(d.Level),
				"shadows_off": d.ShadowOff,
			})
		}),
	)

	return s, nil
}

// ID returns the session identity.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Token returns the opaque lookup token.
func (s *Session) Token() string {
	return s.token
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt
}

// LastActivityAt returns the last Touch time.
func (s *Session) LastActivityAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivityAt
}

// ExpiresAt returns the current expiry deadline.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Expired reports whether the session is past its deadline at now.
func (s *Session) Expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.expiresAt)
}

// Touch refreshes the activity timestamp and slides the expiry forward.
func (s *Session) Touch() {
	now := s.clock.Now()
	s.mu.Lock()
	s.lastActivityAt = now
	s.expiresAt = now.Add(s.cfg.TTL)
	s.mu.Unlock()
}

// Designs returns the design store.
func (s *Session) Designs() *design.Store {
	return s.designs
}

// Generation returns the generation orchestrator.
func (s *Session) Generation() *generation.Orchestrator {
	return s.orchestrator
}

// Limits returns the rate-limit tracker.
func (s *Session) Limits() *ratelimit.Tracker {
	return s.limits
}

// Camera returns the auto-return controller.
func (s *Session) Camera() *camera.Controller {
	return s.camera
}

// Interactions returns the interaction tracker.
func (s *Session) Interactions() *camera.InteractionTracker {
	return s.interactions
}

// Quality returns the adaptive quality governor.
func (s *Session) Quality() *quality.Governor {
	return s.quality
}

// Engagement returns the engagement scorer.
func (s *Session) Engagement() *engagement.Scorer {
	return s.engagement
}

// Events returns the session event bus for analytics subscriptions.
func (s *Session) Events() events.Bus[events.Event] {
	return s.bus
}

// BeginDrag reacts to a drag-rotate start: the auto-return is interrupted
// and the interaction counts toward engagement.
func (s *Session) BeginDrag() {
	s.interactions.BeginDrag()
	s.camera.Interrupt()
	s.engagement.RecordInteraction()
	s.Touch()
}

// EndDrag re-arms the auto-return countdown.
func (s *Session) EndDrag() {
	s.interactions.EndDrag()
	s.camera.Arm()
}

// BeginZoom reacts to a wheel-zoom start.
func (s *Session) BeginZoom() {
	s.interactions.BeginZoom()
	s.camera.Interrupt()
	s.engagement.RecordInteraction()
	s.Touch()
}

// EndZoom re-arms the auto-return countdown.
func (s *Session) EndZoom() {
	s.interactions.EndZoom()
	s.camera.Arm()
}

// PointerMoved records the pointer position for the interaction tracker.
func (s *Session) PointerMoved(x, y float64) {
	s.interactions.MovePointer(x, y)
}

// ApplyTemplate applies a predefined design template and announces the
// selection.
func (s *Session) ApplyTemplate(tpl design.Template) {
	s.designs.ApplyTemplate(tpl)
	s.publish(events.TemplateSelected, map[string]any{"template": tpl.Name})
	s.Touch()
}

// ResetDesign discards the design record and multi-view set and announces
// the reset. Engagement signals survive: the visitor's session did not
// restart, their design did.
func (s *Session) ResetDesign() {
	s.designs.Reset()
	s.publish(events.DesignReset, nil)
}

// Close shuts down the event bus. Sub-states need no teardown beyond
// cancelling the camera timer.
func (s *Session) Close() error {
	s.camera.Interrupt()
	return s.bus.Close()
}

// onDesignChange bridges store mutations to engagement signals and the
// event bus. Runs synchronously on the mutating call.
func (s *Session) onDesignChange(ch design.Change) {
	switch ch.Field {
	case design.FieldColor:
		s.engagement.Mark(engagement.CategoryColor)
	case design.FieldText, design.FieldFont, design.FieldTextSize,
		design.FieldTextColor, design.FieldTextPosition:
		s.engagement.Mark(engagement.CategoryText)
	case design.FieldRender:
		s.engagement.Mark(engagement.CategoryRender)
	}
	if ch.ImageAdded {
		s.engagement.Mark(engagement.CategoryImage)
	}

	s.publish(events.DesignChanged, map[string]any{
		"field":    string(ch.Field),
		"complete": ch.Design.Complete,
	})
}

// onGenerationEvent forwards orchestrator notifications onto the bus and
// marks multi-view engagement when a set lands.
func (s *Session) onGenerationEvent(name string, fields map[string]any) {
	if name == events.MultiViewGenerated {
		s.engagement.Mark(engagement.CategoryMultiView)
	}
	s.publish(name, fields)
}

func (s *Session) publish(name string, fields map[string]any) {
	s.bus.Publish(events.New(name, s.id, s.clock.Now(), fields))
}

// generateToken creates a cryptographically secure lookup token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
