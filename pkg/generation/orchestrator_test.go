package generation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prietto/mugforge/pkg/design"
	"github.com/prietto/mugforge/pkg/genapi"
	"github.com/prietto/mugforge/pkg/generation"
	"github.com/prietto/mugforge/pkg/ratelimit"
	"github.com/prietto/mugforge/pkg/timekit"
)

// stubClient scripts responses per call and records requests.
type stubClient struct {
	mu sync.Mutex

	textureResp *genapi.TextureResponse
	textureErr  error
	textureFn   func(req genapi.TextureRequest) (*genapi.TextureResponse, error)
	textureReqs []genapi.TextureRequest

	multiViewResp *genapi.MultiViewResponse
	multiViewErr  error
	multiViewReqs []genapi.MultiViewRequest
}

func (c *stubClient) GenerateTexture(_ context.Context, req genapi.TextureRequest) (*genapi.TextureResponse, error) {
	c.mu.Lock()
	c.textureReqs = append(c.textureReqs, req)
	fn := c.textureFn
	resp, err := c.textureResp, c.textureErr
	c.mu.Unlock()

	if fn != nil {
		return fn(req)
	}
	return resp, err
}

func (c *stubClient) GenerateMultiView(_ context.Context, req genapi.MultiViewRequest) (*genapi.MultiViewResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.multiViewReqs = append(c.multiViewReqs, req)
	return c.multiViewResp, c.multiViewErr
}

func (c *stubClient) textureCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textureReqs)
}

func newOrchestrator(t *testing.T, client *stubClient) (*generation.Orchestrator, *design.Store, *ratelimit.Tracker) {
	t.Helper()
	store := design.NewStore()
	limits := ratelimit.NewTracker(5)
	orch := generation.NewOrchestrator(client, store, limits,
		generation.WithClock(timekit.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))),
	)
	return orch, store, limits
}

func TestOrchestrator_SetMode(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) *generation.Orchestrator {
		client := &stubClient{textureResp: &genapi.TextureResponse{ImageURL: "https://cdn.example.com/t.png"}}
		orch, _, _ := newOrchestrator(t, client)

		orch.SetMode(generation.ModeImageToImage)
		_, err := orch.GenerateFromImage(context.Background(), "https://cdn.example.com/base.png", "make it retro")
		require.NoError(t, err)
		require.NotEmpty(t, orch.Preview())
		return orch
	}

	t.Run("switch to manual clears base image and preview", func(t *testing.T) {
		t.Parallel()
		orch := setup(t)
		orch.SetMode(generation.ModeManual)

		snap := orch.Snapshot()
		assert.Equal(t, generation.ModeManual, snap.Mode)
		assert.Empty(t, snap.BaseImage)
		assert.Empty(t, snap.Preview)
		assert.Equal(t, "make it retro", snap.Prompt, "prompt survives every switch")
	})

	t.Run("switch to text-to-image clears only the base image", func(t *testing.T) {
		t.Parallel()
		orch := setup(t)
		orch.SetMode(generation.ModeTextToImage)

		snap := orch.Snapshot()
		assert.Empty(t, snap.BaseImage)
		assert.NotEmpty(t, snap.Preview)
	})

	t.Run("switch to image-to-image clears only the preview", func(t *testing.T) {
		t.Parallel()
		orch := setup(t)
		orch.SetMode(generation.ModeTextToImage)
		orch.SetBaseImage("https://cdn.example.com/base2.png")
		orch.SetMode(generation.ModeImageToImage)

		snap := orch.Snapshot()
		assert.Empty(t, snap.Preview)
		assert.Equal(t, "https://cdn.example.com/base2.png", snap.BaseImage)
	})
}

func TestOrchestrator_GenerateFromText(t *testing.T) {
	t.Parallel()

	t.Run("success commits image and counts the session tier", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{textureResp: &genapi.TextureResponse{
			ImageURL: "https://cdn.example.com/sunflowers.png",
			Quota:    &genapi.Quota{Remaining: 3, Limit: 5},
		}}
		orch, store, limits := newOrchestrator(t, client)

		url, err := orch.GenerateFromText(context.Background(), "sunflowers on teal")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/sunflowers.png", url)
		assert.Equal(t, "https://cdn.example.com/sunflowers.png", store.Snapshot().ImageURL)
		assert.False(t, orch.InFlight())

		state := limits.State()
		assert.Equal(t, 2, state.Session.Used, "quota block overrides the local count")
		assert.Equal(t, 5, state.Session.Limit)
	})

	t.Run("empty prompt never reaches the network", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{}
		orch, _, _ := newOrchestrator(t, client)

		_, err := orch.GenerateFromText(context.Background(), "   ")
		assert.ErrorIs(t, err, generation.ErrEmptyPrompt)
		assert.ErrorIs(t, orch.LastError(), generation.ErrEmptyPrompt)
		assert.Zero(t, client.textureCalls())
	})

	t.Run("transport failure stores the generic error and leaves the design alone", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{textureErr: errors.New("dial tcp: connection refused")}
		orch, store, _ := newOrchestrator(t, client)

		_, err := orch.GenerateFromText(context.Background(), "sunflowers")
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
		assert.Empty(t, store.Snapshot().ImageURL)
		assert.False(t, orch.InFlight())
	})

	t.Run("decodable endpoint failure keeps the server message", func(t *testing.T) {
		t.Parallel()
		apiErr := &genapi.APIError{StatusCode: 400, Message: "prompt rejected by safety filter"}
		client := &stubClient{textureErr: apiErr}
		orch, _, _ := newOrchestrator(t, client)

		_, err := orch.GenerateFromText(context.Background(), "sunflowers")
		assert.ErrorContains(t, err, "prompt rejected by safety filter")
	})

	t.Run("next attempt clears the previous error", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{textureErr: errors.New("boom")}
		orch, _, _ := newOrchestrator(t, client)

		_, _ = orch.GenerateFromText(context.Background(), "first")
		require.Error(t, orch.LastError())

		client.mu.Lock()
		client.textureErr = nil
		client.textureResp = &genapi.TextureResponse{ImageURL: "https://cdn.example.com/ok.png"}
		client.mu.Unlock()

		_, err := orch.GenerateFromText(context.Background(), "second")
		require.NoError(t, err)
		assert.NoError(t, orch.LastError())
	})
}

func TestOrchestrator_RateLimitClassification(t *testing.T) {
	t.Parallel()

	t.Run("client limit marks the tier fully exhausted", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{textureErr: &genapi.APIError{
			StatusCode: 429,
			Code:       genapi.CodeClientLimit,
			Message:    "daily allowance used",
			RetryAfter: time.Hour,
			Limit:      15,
		}}
		orch, _, limits := newOrchestrator(t, client)

		_, err := orch.GenerateFromText(context.Background(), "sunflowers")
		require.Error(t, err)

		state := limits.State()
		assert.Equal(t, ratelimit.TierClient, state.Active())
		require.NotNil(t, state.Client)
		assert.Equal(t, 15, state.Client.Used)
		assert.Equal(t, 15, state.Client.Limit)
		require.NotNil(t, state.RetryAfter)
	})

	t.Run("global limit dominates and clears only on the next success", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{textureErr: &genapi.APIError{
			StatusCode: 429,
			Code:       genapi.CodeGlobalLimit,
			Message:    "service is at capacity",
			RetryAfter: 30 * time.Minute,
		}}
		orch, _, limits := newOrchestrator(t, client)

		_, _ = orch.GenerateFromText(context.Background(), "sunflowers")
		assert.Equal(t, ratelimit.TierGlobal, limits.State().Active())

		client.mu.Lock()
		client.textureErr = nil
		client.textureResp = &genapi.TextureResponse{ImageURL: "https://cdn.example.com/ok.png"}
		client.mu.Unlock()

		_, err := orch.GenerateFromText(context.Background(), "again")
		require.NoError(t, err)
		assert.False(t, limits.State().GlobalReached)
	})
}

func TestOrchestrator_ImageToImage(t *testing.T) {
	t.Parallel()

	t.Run("missing base image fails before the network", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{}
		orch, _, _ := newOrchestrator(t, client)

		_, err := orch.GenerateFromImage(context.Background(), "", "retro")
		assert.ErrorIs(t, err, generation.ErrMissingBaseImage)
		assert.Zero(t, client.textureCalls())
	})

	t.Run("success stages a preview without touching the design", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{textureResp: &genapi.TextureResponse{ImageURL: "https://cdn.example.com/styled.png"}}
		orch, store, _ := newOrchestrator(t, client)

		url, err := orch.GenerateFromImage(context.Background(), "https://cdn.example.com/base.png", "retro")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/styled.png", url)
		assert.Equal(t, url, orch.Preview())
		assert.Empty(t, store.Snapshot().ImageURL)
	})

	t.Run("apply commits the preview and clears it", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{textureResp: &genapi.TextureResponse{ImageURL: "https://cdn.example.com/styled.png"}}
		orch, store, _ := newOrchestrator(t, client)

		_, err := orch.GenerateFromImage(context.Background(), "https://cdn.example.com/base.png", "retro")
		require.NoError(t, err)

		require.NoError(t, orch.ApplyPreview())
		assert.Equal(t, "https://cdn.example.com/styled.png", store.Snapshot().ImageURL)
		assert.Empty(t, orch.Preview())

		assert.ErrorIs(t, orch.ApplyPreview(), generation.ErrNoPreview)
	})

	t.Run("discard drops the preview without committing", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{textureResp: &genapi.TextureResponse{ImageURL: "https://cdn.example.com/styled.png"}}
		orch, store, _ := newOrchestrator(t, client)

		_, err := orch.GenerateFromImage(context.Background(), "https://cdn.example.com/base.png", "retro")
		require.NoError(t, err)

		orch.DiscardPreview()
		assert.Empty(t, orch.Preview())
		assert.Empty(t, store.Snapshot().ImageURL)
	})
}

func TestOrchestrator_RenderWorkflow(t *testing.T) {
	t.Parallel()

	newRendered := func(t *testing.T) (*generation.Orchestrator, *design.Store, *stubClient) {
		client := &stubClient{textureResp: &genapi.TextureResponse{ImageURL: "https://cdn.example.com/render1.png"}}
		orch, store, _ := newOrchestrator(t, client)

		url, err := orch.GenerateFromPrompt(context.Background(), "a mug with sunflowers")
		require.NoError(t, err)
		require.Equal(t, "https://cdn.example.com/render1.png", url)
		return orch, store, client
	}

	t.Run("first generation stages the render and starts the attempt count", func(t *testing.T) {
		t.Parallel()
		orch, store, _ := newRendered(t)

		assert.Equal(t, "https://cdn.example.com/render1.png", orch.Render())
		assert.Equal(t, 1, orch.Attempts())
		assert.Empty(t, store.Snapshot().RenderURL, "staged, not committed")
	})

	t.Run("regenerate reuses the stored prompt and increments attempts", func(t *testing.T) {
		t.Parallel()
		orch, _, client := newRendered(t)

		client.mu.Lock()
		client.textureResp = &genapi.TextureResponse{ImageURL: "https://cdn.example.com/render2.png"}
		client.mu.Unlock()

		url, err := orch.RegenerateRender(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/render2.png", url)
		assert.Equal(t, 2, orch.Attempts())

		client.mu.Lock()
		last := client.textureReqs[len(client.textureReqs)-1]
		client.mu.Unlock()
		assert.Equal(t, "a mug with sunflowers", last.Prompt)
		assert.Equal(t, genapi.ModeFullRender, last.Mode)
	})

	t.Run("regenerate without a stored prompt fails", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{}
		orch, _, _ := newOrchestrator(t, client)

		_, err := orch.RegenerateRender(context.Background())
		assert.ErrorIs(t, err, generation.ErrNoStoredPrompt)
		assert.Zero(t, client.textureCalls())
	})

	t.Run("adjust clears the render and multi-view but keeps the prompt", func(t *testing.T) {
		t.Parallel()
		orch, store, _ := newRendered(t)

		front := design.View{Angle: design.AngleFront, URL: "https://cdn.example.com/render1.png"}
		require.NoError(t, store.SetMultiView(front))

		orch.AdjustRender()
		assert.Empty(t, orch.Render())
		assert.True(t, store.MultiView().Empty())
		assert.Equal(t, "a mug with sunflowers", orch.Snapshot().Prompt)
	})

	t.Run("apply commits the render and marks the design complete", func(t *testing.T) {
		t.Parallel()
		orch, store, _ := newRendered(t)

		require.NoError(t, orch.ApplyRender())
		snap := store.Snapshot()
		assert.Equal(t, "https://cdn.example.com/render1.png", snap.RenderURL)
		assert.True(t, snap.Complete)
		assert.NotEmpty(t, orch.Render(), "staged render survives apply for multi-view")
	})

	t.Run("apply without a render fails", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{}
		orch, _, _ := newOrchestrator(t, client)
		assert.ErrorIs(t, orch.ApplyRender(), generation.ErrNoRender)
	})
}

func TestOrchestrator_GenerateMultiView(t *testing.T) {
	t.Parallel()

	newRendered := func(t *testing.T, client *stubClient) (*generation.Orchestrator, *design.Store) {
		client.mu.Lock()
		client.textureResp = &genapi.TextureResponse{ImageURL: "https://cdn.example.com/front.png"}
		client.mu.Unlock()

		orch, store, _ := newOrchestrator(t, client)
		_, err := orch.GenerateFromPrompt(context.Background(), "a mug with sunflowers")
		require.NoError(t, err)
		return orch, store
	}

	t.Run("without a render the multi-view concern errors", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{}
		orch, _, _ := newOrchestrator(t, client)

		_, err := orch.GenerateMultiView(context.Background())
		assert.ErrorIs(t, err, generation.ErrNoRender)
		assert.ErrorIs(t, orch.MultiViewError(), generation.ErrNoRender)
		assert.NoError(t, orch.LastError(), "texture concern untouched")
	})

	t.Run("full success anchors the set with the staged render", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{multiViewResp: &genapi.MultiViewResponse{Views: []genapi.View{
			{Angle: "side", URL: "https://cdn.example.com/side.png"},
			{Angle: "handle", URL: "https://cdn.example.com/handle.png"},
		}}}
		orch, store := newRendered(t, client)

		set, err := orch.GenerateMultiView(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, set.Len())

		front, ok := set.Front()
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example.com/front.png", front.URL)
		assert.Equal(t, 3, store.MultiView().Len())
	})

	t.Run("partial success is a success", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{multiViewResp: &genapi.MultiViewResponse{
			Views:          []genapi.View{{Angle: "side", URL: "https://cdn.example.com/side.png"}},
			PartialSuccess: true,
		}}
		orch, _ := newRendered(t, client)

		set, err := orch.GenerateMultiView(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.NoError(t, orch.MultiViewError())
	})

	t.Run("failure keeps the existing set intact", func(t *testing.T) {
		t.Parallel()
		client := &stubClient{multiViewResp: &genapi.MultiViewResponse{Views: []genapi.View{
			{Angle: "side", URL: "https://cdn.example.com/side.png"},
		}}}
		orch, store := newRendered(t, client)

		_, err := orch.GenerateMultiView(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, store.MultiView().Len())

		client.mu.Lock()
		client.multiViewResp = nil
		client.multiViewErr = errors.New("boom")
		client.mu.Unlock()

		_, err = orch.GenerateMultiView(context.Background())
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
		assert.Equal(t, 2, store.MultiView().Len())
		assert.False(t, orch.InFlight())
	})
}

func TestOrchestrator_StaleResponses(t *testing.T) {
	t.Parallel()

	t.Run("superseded texture response is discarded", func(t *testing.T) {
		t.Parallel()

		firstEntered := make(chan struct{})
		release := make(chan struct{})
		client := &stubClient{}
		client.textureFn = func(req genapi.TextureRequest) (*genapi.TextureResponse, error) {
			if req.Prompt == "first" {
				close(firstEntered)
				<-release
				return &genapi.TextureResponse{ImageURL: "https://cdn.example.com/stale.png"}, nil
			}
			return &genapi.TextureResponse{ImageURL: "https://cdn.example.com/fresh.png"}, nil
		}
		orch, store, limits := newOrchestrator(t, client)

		errc := make(chan error, 1)
		go func() {
			_, err := orch.GenerateFromText(context.Background(), "first")
			errc <- err
		}()

		<-firstEntered
		_, err := orch.GenerateFromText(context.Background(), "second")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/fresh.png", store.Snapshot().ImageURL)

		close(release)
		assert.ErrorIs(t, <-errc, generation.ErrSuperseded)

		assert.Equal(t, "https://cdn.example.com/fresh.png", store.Snapshot().ImageURL,
			"stale response must not overwrite the newer result")
		assert.Equal(t, 1, limits.State().Session.Used, "stale success never counts")
		assert.False(t, orch.InFlight())
	})
}

func TestOrchestrator_DismissErrors(t *testing.T) {
	t.Parallel()

	client := &stubClient{textureErr: errors.New("boom")}
	orch, _, _ := newOrchestrator(t, client)

	_, _ = orch.GenerateFromText(context.Background(), "sunflowers")
	require.Error(t, orch.LastError())

	orch.DismissError()
	assert.NoError(t, orch.LastError())
}
