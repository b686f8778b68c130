package generation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prietto/mugforge/pkg/design"
	"github.com/prietto/mugforge/pkg/genapi"
	"github.com/prietto/mugforge/pkg/logger"
	"github.com/prietto/mugforge/pkg/ratelimit"
	"github.com/prietto/mugforge/pkg/statemachine"
	"github.com/prietto/mugforge/pkg/timekit"
)

// Client is the slice of the generation endpoint the orchestrator uses.
type Client interface {
	GenerateTexture(ctx context.Context, req genapi.TextureRequest) (*genapi.TextureResponse, error)
	GenerateMultiView(ctx context.Context, req genapi.MultiViewRequest) (*genapi.MultiViewResponse, error)
}

// Emitter receives fire-and-forget domain event notifications. The
// orchestrator never waits on it.
type Emitter func(name string, fields map[string]any)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithClock(clock timekit.Clock) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

func WithEmitter(emit Emitter) Option {
	return func(o *Orchestrator) {
		if emit != nil {
			o.emit = emit
		}
	}
}

// Orchestrator sequences calls to the generation endpoint for the three
// modes and the multi-view batch, and owns the ephemeral generation
// session state. On success it writes results into the design store (or
// the staged preview) and folds quota blocks into the rate-limit tracker;
// on failure it classifies the error and never touches the design.
//
// Methods are synchronous and ctx-aware; overlapping calls are permitted.
// Every request carries a per-concern token, and a response bearing a
// stale token is discarded without mutating shared state.
type Orchestrator struct {
	mu        sync.Mutex
	client    Client
	designs   *design.Store
	limits    *ratelimit.Tracker
	clock     timekit.Clock
	log       *slog.Logger
	emit      Emitter
	lifecycle statemachine.StateMachine

	mode      Mode
	prompt    string
	baseImage string
	preview   string

	render       string
	renderPrompt string
	attempts     int

	textureErr   error
	multiViewErr error

	textureSeq   uint64
	multiViewSeq uint64
}

// NewOrchestrator wires the orchestrator to its collaborators. The design
// store and rate-limit tracker are required; everything else has defaults.
func NewOrchestrator(client Client, designs *design.Store, limits *ratelimit.Tracker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:    client,
		designs:   designs,
		limits:    limits,
		clock:     timekit.NewClock(),
		log:       slog.Default(),
		emit:      func(string, map[string]any) {},
		lifecycle: newLifecycle(),
		mode:      ModeManual,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Mode returns the active generation mode.
func (o *Orchestrator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// SetMode switches the generation strategy, clearing exactly the fields
// that are invalid for the destination mode. The prompt survives every
// switch.
func (o *Orchestrator) SetMode(mode Mode) {
	o.mu.Lock()
	switch mode {
	case ModeManual:
		o.baseImage = ""
		o.preview = ""
	case ModeTextToImage:
		o.baseImage = ""
	case ModeImageToImage:
		o.preview = ""
	default:
		o.mu.Unlock()
		return
	}
	o.mode = mode
	o.mu.Unlock()

	o.emit("generation.mode_changed", map[string]any{"mode": string(mode)})
}

// SetPrompt stores the prompt being edited.
func (o *Orchestrator) SetPrompt(prompt string) {
	o.mu.Lock()
	o.prompt = prompt
	o.mu.Unlock()
}

// SetBaseImage stages the uploaded base image for image-to-image.
func (o *Orchestrator) SetBaseImage(url string) {
	o.mu.Lock()
	o.baseImage = url
	o.mu.Unlock()
}

// InFlight reports whether any generation request is outstanding.
func (o *Orchestrator) InFlight() bool {
	return o.lifecycle.Current() == StateRequesting
}

// Snapshot returns the generation session state for presentation.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return State{
		Mode:           o.mode,
		Prompt:         o.prompt,
		BaseImage:      o.baseImage,
		Preview:        o.preview,
		Render:         o.render,
		RenderPrompt:   o.renderPrompt,
		Attempts:       o.attempts,
		InFlight:       o.lifecycle.Current() == StateRequesting,
		LastError:      o.textureErr,
		MultiViewError: o.multiViewErr,
	}
}

// LastError returns the texture-concern error. Errors never auto-expire;
// they clear on the next attempt or an explicit dismiss.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.textureErr
}

// MultiViewError returns the multi-view-concern error.
func (o *Orchestrator) MultiViewError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.multiViewErr
}

// DismissError clears the texture-concern error.
func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	o.textureErr = nil
	o.mu.Unlock()
}

// DismissMultiViewError clears the multi-view-concern error.
func (o *Orchestrator) DismissMultiViewError() {
	o.mu.Lock()
	o.multiViewErr = nil
	o.mu.Unlock()
}

// GenerateFromText requests a texture for prompt and, on success, commits
// the returned image reference straight into the design record.
func (o *Orchestrator) GenerateFromText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		o.failValidation(ConcernTexture, ErrEmptyPrompt)
		return "", ErrEmptyPrompt
	}

	token := o.begin(ConcernTexture, prompt, genapi.ModeTextToImage)
	resp, err := o.client.GenerateTexture(ctx, genapi.TextureRequest{
		Prompt: prompt,
		Mode:   genapi.ModeTextToImage,
	})

	return o.finishTexture(token, resp, err, func(url string) {
		o.designs.SetImage(url)
	})
}

// GenerateFromImage restyles base with prompt. Success lands in the staged
// preview, not the design record; ApplyPreview commits it.
func (o *Orchestrator) GenerateFromImage(ctx context.Context, base, prompt string) (string, error) {
	if base == "" {
		o.failValidation(ConcernTexture, ErrMissingBaseImage)
		return "", ErrMissingBaseImage
	}

	o.mu.Lock()
	o.baseImage = base
	o.mu.Unlock()

	token := o.begin(ConcernTexture, prompt, genapi.ModeImageToImage)
	resp, err := o.client.GenerateTexture(ctx, genapi.TextureRequest{
		Prompt:    prompt,
		Mode:      genapi.ModeImageToImage,
		BaseImage: base,
	})

	return o.finishTexture(token, resp, err, func(url string) {
		o.mu.Lock()
		o.preview = url
		o.mu.Unlock()
	})
}

// ApplyPreview commits the staged preview into the design record and
// clears it.
func (o *Orchestrator) ApplyPreview() error {
	o.mu.Lock()
	if o.preview == "" {
		o.textureErr = ErrNoPreview
		o.mu.Unlock()
		return ErrNoPreview
	}
	url := o.preview
	o.preview = ""
	o.mu.Unlock()

	o.designs.SetImage(url)
	o.emit("generation.preview_applied", map[string]any{"image_url": url})
	return nil
}

// DiscardPreview drops the staged preview without committing it.
func (o *Orchestrator) DiscardPreview() {
	o.mu.Lock()
	o.preview = ""
	o.mu.Unlock()
}

// Preview returns the staged image-to-image result, if any.
func (o *Orchestrator) Preview() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.preview
}

// GenerateFromPrompt requests a full-mug render for prompt. Success lands
// in the staged render field; the accept/regenerate/adjust workflow decides
// what happens next.
func (o *Orchestrator) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		o.failValidation(ConcernTexture, ErrEmptyPrompt)
		return "", ErrEmptyPrompt
	}

	o.mu.Lock()
	o.attempts = 1
	o.mu.Unlock()

	return o.generateRender(ctx, prompt)
}

// RegenerateRender reuses the stored prompt and increments the attempt
// counter.
func (o *Orchestrator) RegenerateRender(ctx context.Context) (string, error) {
	o.mu.Lock()
	prompt := o.renderPrompt
	if prompt == "" {
		o.textureErr = ErrNoStoredPrompt
		o.mu.Unlock()
		return "", ErrNoStoredPrompt
	}
	o.attempts++
	o.mu.Unlock()

	return o.generateRender(ctx, prompt)
}

// AdjustRender clears the staged render and any multi-view set while
// preserving the prompt for editing.
func (o *Orchestrator) AdjustRender() {
	o.mu.Lock()
	o.render = ""
	o.prompt = o.renderPrompt
	o.mu.Unlock()

	o.designs.ClearMultiView()
}

// ApplyRender persists the staged render into the design record and marks
// the design complete.
func (o *Orchestrator) ApplyRender() error {
	o.mu.Lock()
	if o.render == "" {
		o.textureErr = ErrNoRender
		o.mu.Unlock()
		return ErrNoRender
	}
	url := o.render
	o.mu.Unlock()

	o.designs.SetRender(url)
	o.designs.MarkComplete()
	o.emit("generation.render_applied", map[string]any{"render_url": url})
	return nil
}

// Render returns the staged full-mug render, if any.
func (o *Orchestrator) Render() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.render
}

// Attempts returns the attempt counter for the current render workflow.
func (o *Orchestrator) Attempts() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempts
}

func (o *Orchestrator) generateRender(ctx context.Context, prompt string) (string, error) {
	token := o.begin(ConcernTexture, prompt, genapi.ModeFullRender)
	resp, err := o.client.GenerateTexture(ctx, genapi.TextureRequest{
		Prompt: prompt,
		Mode:   genapi.ModeFullRender,
	})

	return o.finishTexture(token, resp, err, func(url string) {
		o.mu.Lock()
		o.render = url
		o.renderPrompt = prompt
		o.mu.Unlock()
	})
}

// GenerateMultiView requests the side and handle angles for the staged
// render. The render itself anchors the set as the front view. A response
// with only one of the two requested angles is still a success.
func (o *Orchestrator) GenerateMultiView(ctx context.Context) (design.MultiViewSet, error) {
	o.mu.Lock()
	render, prompt := o.render, o.renderPrompt
	if render == "" || prompt == "" {
		o.multiViewErr = ErrNoRender
		o.mu.Unlock()
		return design.MultiViewSet{}, ErrNoRender
	}

	o.multiViewErr = nil
	o.multiViewSeq++
	token := o.multiViewSeq
	_ = o.lifecycle.Fire(context.Background(), eventStart, nil)
	o.mu.Unlock()

	designID := o.designs.Snapshot().ID
	o.emit("generation.started", map[string]any{"concern": string(ConcernMultiView)})
	o.log.DebugContext(ctx, "multi-view generation started", logger.DesignID(designID))

	resp, err := o.client.GenerateMultiView(ctx, genapi.MultiViewRequest{
		DesignID:   designID.String(),
		BasePrompt: prompt,
		ViewAngles: []string{string(design.AngleSide), string(design.AngleHandle)},
	})

	o.mu.Lock()
	stale := token != o.multiViewSeq
	if err != nil {
		_ = o.lifecycle.Fire(context.Background(), eventFail, nil)
	} else {
		_ = o.lifecycle.Fire(context.Background(), eventSucceed, nil)
	}

	if stale {
		o.mu.Unlock()
		return design.MultiViewSet{}, ErrSuperseded
	}

	if err != nil {
		stored := o.classify(err)
		o.multiViewErr = stored
		o.mu.Unlock()

		o.emit("generation.failed", map[string]any{"concern": string(ConcernMultiView)})
		o.log.WarnContext(ctx, "multi-view generation failed", logger.Error(err))
		return design.MultiViewSet{}, stored
	}

	now := o.clock.Now()
	front := design.View{Angle: design.AngleFront, URL: render, GeneratedAt: now}
	o.mu.Unlock()

	extras := make([]design.View, 0, len(resp.Views))
	for _, v := range resp.Views {
		angle := design.ViewAngle(v.Angle)
		if !design.KnownAngle(angle) || angle == design.AngleFront || v.URL == "" {
			continue
		}
		extras = append(extras, design.View{Angle: angle, URL: v.URL, GeneratedAt: now})
	}

	if err := o.designs.SetMultiView(front, extras...); err != nil {
		o.mu.Lock()
		o.multiViewErr = err
		o.mu.Unlock()
		return design.MultiViewSet{}, err
	}

	set := o.designs.MultiView()
	o.emit("generation.multi_view_generated", map[string]any{
		"views":   set.Len(),
		"partial": resp.PartialSuccess,
	})
	return set, nil
}

// begin enters the request lifecycle for the texture concern: clears the
// prior error, stores the prompt, issues a fresh token, and raises the
// in-flight flag.
func (o *Orchestrator) begin(concern Concern, prompt string, mode genapi.Mode) uint64 {
	o.mu.Lock()
	o.textureErr = nil
	o.prompt = prompt
	o.textureSeq++
	token := o.textureSeq
	_ = o.lifecycle.Fire(context.Background(), eventStart, nil)
	o.mu.Unlock()

	o.emit("generation.started", map[string]any{
		"concern": string(concern),
		"mode":    string(mode),
	})
	return token
}

// finishTexture runs the terminal branch for a texture-concern request.
// The in-flight flag clears on every path; stale responses are discarded
// without mutating session, design, or rate-limit state.
func (o *Orchestrator) finishTexture(token uint64, resp *genapi.TextureResponse, err error, commit func(url string)) (string, error) {
	o.mu.Lock()
	stale := token != o.textureSeq
	if err != nil {
		_ = o.lifecycle.Fire(context.Background(), eventFail, nil)
	} else {
		_ = o.lifecycle.Fire(context.Background(), eventSucceed, nil)
	}

	if stale {
		o.mu.Unlock()
		return "", ErrSuperseded
	}

	if err != nil {
		stored := o.classify(err)
		o.textureErr = stored
		o.mu.Unlock()

		o.emit("generation.failed", map[string]any{"concern": string(ConcernTexture)})
		o.log.Warn("generation failed", logger.Error(err))
		return "", stored
	}

	o.mu.Unlock()

	// Commit and quota updates run outside the orchestrator lock: the design
	// store notifies listeners synchronously on the mutating call.
	commit(resp.ImageURL)
	o.limits.RecordSuccess()
	// The response quota already accounts for this request, so it
	// overwrites the local count.
	if resp.Quota != nil {
		o.limits.ApplyQuota(resp.Quota.Remaining, resp.Quota.Limit, resp.Quota.IPUsed)
	}

	o.emit("generation.succeeded", map[string]any{
		"concern":   string(ConcernTexture),
		"image_url": resp.ImageURL,
	})
	return resp.ImageURL, nil
}

// classify folds rate-limit codes into the tracker and picks the stored
// error: decodable endpoint failures keep their message, transport errors
// collapse to the generic failure.
func (o *Orchestrator) classify(err error) error {
	apiErr, ok := genapi.AsAPIError(err)
	if !ok {
		return ErrGenerationFailed
	}

	var retryAt *time.Time
	if apiErr.RetryAfter > 0 {
		at := o.clock.Now().Add(apiErr.RetryAfter)
		retryAt = &at
	}

	switch {
	case genapi.IsGlobalLimit(err):
		o.limits.ApplyGlobalLimit(retryAt)
	case genapi.IsClientLimit(err):
		o.limits.ApplyClientLimit(apiErr.Limit, retryAt)
	}
	return apiErr
}

// failValidation records a validation error without entering the request
// lifecycle — validation failures never issue a network call.
func (o *Orchestrator) failValidation(concern Concern, err error) {
	o.mu.Lock()
	switch concern {
	case ConcernMultiView:
		o.multiViewErr = err
	default:
		o.textureErr = err
	}
	o.mu.Unlock()

	o.emit("generation.failed", map[string]any{
		"concern":    string(concern),
		"validation": true,
	})
}
