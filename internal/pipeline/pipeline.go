package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"weathertweetbot/internal/compose"
	"weathertweetbot/internal/publish"
	"weathertweetbot/internal/render"
	"weathertweetbot/internal/weather"
)

// Stage names used in outcomes and logs.
const (
	StageFetchCurrent  = "fetch_current"
	StageFetchForecast = "fetch_forecast"
	StageBuildImage    = "build_image"
	StagePublish       = "publish"
)

// Status is the terminal state of one publish cycle.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

var (
	ErrFetchFailure   = errors.New("weather data fetch failed")
	ErrRenderFailure  = errors.New("image render failed")
	ErrPublishFailure = errors.New("tweet publish failed")
)

// Outcome reports how a publish cycle ended. Stage and Err are set only for
// failed cycles.
type Outcome struct {
	Status Status `json:"status"`
	Stage  string `json:"stage,omitempty"`
	Err    error  `json:"-"`
}

// Preview is the result of a non-publishing cycle: the budgeted tweet text
// and the rendered widget image.
type Preview struct {
	Text  string
	Image []byte
}

// Options wires the pipeline's collaborators and fixed configuration.
type Options struct {
	Provider  weather.Provider
	Renderer  render.Renderer
	Publisher publish.Publisher
	Artifacts ArtifactStore

	Location weather.Location
	Region   string
	TZ       *time.Location

	PostEnabled bool

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Pipeline sequences one publish cycle: fetch current + forecast, render the
// widget image, compose and budget the tweet text, publish, and always clean
// up the transient artifact. It is stateless per call and safe to invoke
// repeatedly; concurrent invocations are independent.
type Pipeline struct {
	provider  weather.Provider
	renderer  render.Renderer
	publisher publish.Publisher
	artifacts ArtifactStore

	loc         weather.Location
	region      string
	tz          *time.Location
	postEnabled bool
	now         func() time.Time
}

func New(opts Options) *Pipeline {
	tz := opts.TZ
	if tz == nil {
		tz = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	artifacts := opts.Artifacts
	if artifacts == nil {
		artifacts = NewTempFileStore("")
	}
	return &Pipeline{
		provider:    opts.Provider,
		renderer:    opts.Renderer,
		publisher:   opts.Publisher,
		artifacts:   artifacts,
		loc:         opts.Location,
		region:      opts.Region,
		tz:          tz,
		postEnabled: opts.PostEnabled,
		now:         now,
	}
}

// PostEnabled reports whether this pipeline will actually publish.
func (p *Pipeline) PostEnabled() bool {
	return p.postEnabled
}

// RunPublishCycle executes one full fetch -> compose -> render -> publish
// cycle. Failures never panic or exit; they degrade to a failed Outcome with
// a stage diagnostic. When posting is disabled the cycle completes as a
// deliberate skip after rendering, without calling the publisher.
func (p *Pipeline) RunPublishCycle(ctx context.Context) Outcome {
	log.Printf("INFO: running weather tweet cycle for %s", p.loc.Key())

	snap, forecast, out := p.fetch(ctx)
	if out != nil {
		return *out
	}

	image, err := p.renderWidget(ctx, snap, forecast)
	if err != nil {
		log.Printf("ERROR: image generation failed for %s: %v", p.loc.Key(), err)
		return Outcome{Status: StatusFailed, Stage: StageBuildImage, Err: fmt.Errorf("%w: %v", ErrRenderFailure, err)}
	}

	text := p.composeText(snap)

	if !p.postEnabled {
		log.Printf("INFO: [TEST MODE] skipping post for %s. Content:\n%s", p.loc.Key(), text)
		return Outcome{Status: StatusSkipped}
	}

	artifact, err := p.artifacts.Write(image)
	if err != nil {
		log.Printf("ERROR: writing image artifact failed for %s: %v", p.loc.Key(), err)
		return Outcome{Status: StatusFailed, Stage: StagePublish, Err: fmt.Errorf("%w: %v", ErrPublishFailure, err)}
	}
	// Cleanup is unconditional once the artifact exists, success or not.
	defer func() {
		if err := p.artifacts.Remove(artifact); err != nil {
			log.Printf("ERROR: failed to clean up artifact %s: %v", artifact, err)
		} else {
			log.Printf("INFO: cleaned up temporary image artifact %s", artifact)
		}
	}()

	if err := p.publisher.Publish(ctx, text, artifact); err != nil {
		if errors.Is(err, publish.ErrRateLimited) {
			log.Printf("ERROR: rate limited posting for %s; will not retry", p.loc.Key())
			return Outcome{Status: StatusFailed, Stage: StagePublish, Err: fmt.Errorf("%w: %v", publish.ErrRateLimited, err)}
		}
		log.Printf("ERROR: posting tweet for %s failed: %v", p.loc.Key(), err)
		return Outcome{Status: StatusFailed, Stage: StagePublish, Err: fmt.Errorf("%w: %v", ErrPublishFailure, err)}
	}

	log.Printf("INFO: weather tweet cycle for %s completed successfully", p.loc.Key())
	return Outcome{Status: StatusSuccess}
}

// PreviewCycle performs the same composition as RunPublishCycle but never
// publishes and leaves no artifact behind. It is read-only with respect to
// the outside world apart from the upstream fetches and the render call.
func (p *Pipeline) PreviewCycle(ctx context.Context) (Preview, error) {
	snap, forecast, out := p.fetch(ctx)
	if out != nil {
		return Preview{}, out.Err
	}

	image, err := p.renderWidget(ctx, snap, forecast)
	if err != nil {
		return Preview{}, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	return Preview{Text: p.composeText(snap), Image: image}, nil
}

// fetch retrieves the current snapshot and the forecast series. The two
// calls are independent, so they run concurrently; correctness does not
// depend on the overlap.
func (p *Pipeline) fetch(ctx context.Context) (*weather.Snapshot, weather.Forecast, *Outcome) {
	var (
		wg       sync.WaitGroup
		snap     weather.Snapshot
		snapErr  error
		forecast weather.Forecast
		fcErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		snap, snapErr = p.provider.FetchCurrent(ctx, p.loc)
	}()
	go func() {
		defer wg.Done()
		forecast, fcErr = p.provider.FetchForecast(ctx, p.loc)
	}()
	wg.Wait()

	if snapErr != nil {
		log.Printf("ERROR: could not fetch current weather for %s: %v", p.loc.Key(), snapErr)
		return nil, nil, &Outcome{Status: StatusFailed, Stage: StageFetchCurrent, Err: fmt.Errorf("%w: %v", ErrFetchFailure, snapErr)}
	}
	if fcErr != nil {
		log.Printf("ERROR: could not fetch forecast for %s: %v", p.loc.Key(), fcErr)
		return nil, nil, &Outcome{Status: StatusFailed, Stage: StageFetchForecast, Err: fmt.Errorf("%w: %v", ErrFetchFailure, fcErr)}
	}

	return &snap, forecast, nil
}

func (p *Pipeline) renderWidget(ctx context.Context, snap *weather.Snapshot, forecast weather.Forecast) ([]byte, error) {
	bindings, err := render.BuildBindings(p.loc.City, snap, forecast)
	if err != nil {
		return nil, err
	}
	html, err := render.RenderHTML(bindings)
	if err != nil {
		return nil, err
	}
	image, err := p.renderer.Render(ctx, html)
	if err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, errors.New("renderer returned empty image")
	}
	return image, nil
}

func (p *Pipeline) composeText(snap *weather.Snapshot) string {
	now := p.now().In(p.tz)
	content := compose.Tweet(p.loc.City, p.region, snap, now)
	text := compose.Budget(content.Lines, content.Hashtags, compose.MaxTweetChars)
	log.Printf("INFO: composed tweet (%d chars): %s", len([]rune(text)), strings.ReplaceAll(text, "\n", " | "))
	return text
}
