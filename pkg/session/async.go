package session

import (
	"context"

	"github.com/prietto/mugforge/pkg/async"
	"github.com/prietto/mugforge/pkg/design"
)

// Asynchronous generation facade. Each method suspends at the request
// boundary on its own goroutine and resolves the returned Future on
// response, so the render loop keeps ticking while a request is in
// flight. Overlap and staleness are handled inside the orchestrator.

// GenerateFromTextAsync requests a texture for prompt.
func (s *Session) GenerateFromTextAsync(ctx context.Context, prompt string) *async.Future[string] {
	s.Touch()
	return async.Run(ctx, func(ctx context.Context) (string, error) {
		return s.orchestrator.GenerateFromText(ctx, prompt)
	})
}

// GenerateFromImageAsync restyles base with prompt into the staged preview.
func (s *Session) GenerateFromImageAsync(ctx context.Context, base, prompt string) *async.Future[string] {
	s.Touch()
	return async.Run(ctx, func(ctx context.Context) (string, error) {
		return s.orchestrator.GenerateFromImage(ctx, base, prompt)
	})
}

// GenerateFromPromptAsync requests a full-mug render for prompt.
func (s *Session) GenerateFromPromptAsync(ctx context.Context, prompt string) *async.Future[string] {
	s.Touch()
	return async.Run(ctx, func(ctx context.Context) (string, error) {
		return s.orchestrator.GenerateFromPrompt(ctx, prompt)
	})
}

// RegenerateRenderAsync reuses the stored prompt for another render.
func (s *Session) RegenerateRenderAsync(ctx context.Context) *async.Future[string] {
	s.Touch()
	return async.Run(ctx, func(ctx context.Context) (string, error) {
		return s.orchestrator.RegenerateRender(ctx)
	})
}

// GenerateMultiViewAsync requests the alternate angles for the staged
// render.
func (s *Session) GenerateMultiViewAsync(ctx context.Context) *async.Future[design.MultiViewSet] {
	s.Touch()
	return async.Run(ctx, func(ctx context.Context) (design.MultiViewSet, error) {
		return s.orchestrator.GenerateMultiView(ctx)
	})
}
