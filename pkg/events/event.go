package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the domain event envelope published by the session core. The
// analytics collaborator subscribes to these; the core never awaits or
// inspects delivery.
type Event struct {
	Name      string         `json:"name"`
	SessionID uuid.UUID      `json:"session_id"`
	At        time.Time      `json:"at"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Event names emitted by the core.
const (
	ModeChanged         = "generation.mode_changed"
	GenerationStarted   = "generation.started"
	GenerationSucceeded = "generation.succeeded"
	GenerationFailed    = "generation.failed"
	PreviewApplied      = "generation.preview_applied"
	RenderApplied       = "generation.render_applied"
	MultiViewGenerated  = "generation.multi_view_generated"
	DesignChanged       = "design.changed"
	DesignReset         = "design.reset"
	TemplateSelected    = "design.template_selected"
	QualityAdjusted     = "quality.adjusted"
	CameraReturned      = "camera.returned"
)

// New builds an event stamped with at.
func New(name string, sessionID uuid.UUID, at time.Time, fields map[string]any) Event {
	return Event{
		Name:      name,
		SessionID: sessionID,
		At:        at,
		Fields:    fields,
	}
}
