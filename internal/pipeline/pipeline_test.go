package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weathertweetbot/internal/publish"
	"weathertweetbot/internal/weather"
)

type fakeProvider struct {
	snap        weather.Snapshot
	forecast    weather.Forecast
	currentErr  error
	forecastErr error

	currentCalls  int
	forecastCalls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	f.currentCalls++
	return f.snap, f.currentErr
}

func (f *fakeProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	f.forecastCalls++
	return f.forecast, f.forecastErr
}

type fakeRenderer struct {
	image []byte
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	f.calls++
	return f.image, f.err
}

type fakePublisher struct {
	err   error
	calls int
	text  string
	path  string
}

func (f *fakePublisher) Publish(ctx context.Context, text, imagePath string) error {
	f.calls++
	f.text = text
	f.path = imagePath
	return f.err
}

type fakeArtifacts struct {
	writes  int
	removes []string
	written string
}

func (f *fakeArtifacts) Write(data []byte) (string, error) {
	f.writes++
	f.written = "/tmp/artifact-test.png"
	return f.written, nil
}

func (f *fakeArtifacts) Remove(handle string) error {
	f.removes = append(f.removes, handle)
	return nil
}

func goodProvider() *fakeProvider {
	return &fakeProvider{
		snap: weather.Snapshot{
			Description:  "clear sky",
			Main:         "Clear",
			TemperatureC: 36,
			FeelsLikeC:   38,
			HumidityPct:  40,
			WindSpeedMS:  3,
			WindDeg:      90,
		},
		forecast: weather.Forecast{
			{At: 1756537200, TemperatureC: 34, Main: "Clear"},
			{At: 1756548000, TemperatureC: 31, Main: "Clouds"},
		},
	}
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 29, 15, 5, 0, 0, time.UTC)
}

func newTestPipeline(prov *fakeProvider, rend *fakeRenderer, pub *fakePublisher, arts *fakeArtifacts, enabled bool) *Pipeline {
	return New(Options{
		Provider:    prov,
		Renderer:    rend,
		Publisher:   pub,
		Artifacts:   arts,
		Location:    weather.Location{City: "Gachibowli", Country: "IN"},
		Region:      "Hyderabad",
		TZ:          time.FixedZone("IST", 19800),
		PostEnabled: enabled,
		Now:         fixedNow,
	})
}

func TestRunPublishCycleSuccess(t *testing.T) {
	prov := goodProvider()
	rend := &fakeRenderer{image: []byte("png")}
	pub := &fakePublisher{}
	arts := &fakeArtifacts{}

	out := newTestPipeline(prov, rend, pub, arts, true).RunPublishCycle(context.Background())

	assert.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, 1, prov.currentCalls)
	assert.Equal(t, 1, prov.forecastCalls)
	assert.Equal(t, 1, rend.calls)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, arts.written, pub.path)
	// cleanup always runs once the artifact exists
	assert.Equal(t, []string{arts.written}, arts.removes)
	assert.Contains(t, pub.text, "Hello, Gachibowli!")
	assert.LessOrEqual(t, len([]rune(pub.text)), 280)
}

func TestRunPublishCycleFetchFailureShortCircuits(t *testing.T) {
	prov := goodProvider()
	prov.currentErr = errors.New("connection refused")
	rend := &fakeRenderer{image: []byte("png")}
	pub := &fakePublisher{}

	out := newTestPipeline(prov, rend, pub, &fakeArtifacts{}, true).RunPublishCycle(context.Background())

	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, StageFetchCurrent, out.Stage)
	assert.ErrorIs(t, out.Err, ErrFetchFailure)
	assert.Zero(t, rend.calls)
	assert.Zero(t, pub.calls)
}

func TestRunPublishCycleForecastFailureShortCircuits(t *testing.T) {
	prov := goodProvider()
	prov.forecastErr = errors.New("503")
	rend := &fakeRenderer{image: []byte("png")}
	pub := &fakePublisher{}

	out := newTestPipeline(prov, rend, pub, &fakeArtifacts{}, true).RunPublishCycle(context.Background())

	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, StageFetchForecast, out.Stage)
	assert.Zero(t, rend.calls)
	assert.Zero(t, pub.calls)
}

func TestRunPublishCycleRenderFailure(t *testing.T) {
	prov := goodProvider()
	rend := &fakeRenderer{err: errors.New("wkhtmltoimage missing")}
	pub := &fakePublisher{}

	out := newTestPipeline(prov, rend, pub, &fakeArtifacts{}, true).RunPublishCycle(context.Background())

	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, StageBuildImage, out.Stage)
	assert.ErrorIs(t, out.Err, ErrRenderFailure)
	assert.Zero(t, pub.calls)
}

func TestRunPublishCycleDisabledSkips(t *testing.T) {
	prov := goodProvider()
	rend := &fakeRenderer{image: []byte("png")}
	pub := &fakePublisher{}
	arts := &fakeArtifacts{}

	out := newTestPipeline(prov, rend, pub, arts, false).RunPublishCycle(context.Background())

	assert.Equal(t, StatusSkipped, out.Status)
	assert.Zero(t, pub.calls)
	assert.Zero(t, arts.writes)
	// fetch and render still happen before the skip decision
	assert.Equal(t, 1, rend.calls)
}

func TestRunPublishCycleCleansUpOnPublishFailure(t *testing.T) {
	prov := goodProvider()
	rend := &fakeRenderer{image: []byte("png")}
	pub := &fakePublisher{err: errors.New("transport error")}
	arts := &fakeArtifacts{}

	out := newTestPipeline(prov, rend, pub, arts, true).RunPublishCycle(context.Background())

	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, StagePublish, out.Stage)
	assert.ErrorIs(t, out.Err, ErrPublishFailure)
	assert.Equal(t, []string{arts.written}, arts.removes)
}

func TestRunPublishCycleRateLimitDistinct(t *testing.T) {
	prov := goodProvider()
	rend := &fakeRenderer{image: []byte("png")}
	pub := &fakePublisher{err: publish.ErrRateLimited}
	arts := &fakeArtifacts{}

	out := newTestPipeline(prov, rend, pub, arts, true).RunPublishCycle(context.Background())

	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, publish.ErrRateLimited)
	assert.Equal(t, []string{arts.written}, arts.removes)
}

func TestPreviewCycleNeverPublishes(t *testing.T) {
	prov := goodProvider()
	rend := &fakeRenderer{image: []byte("png")}
	pub := &fakePublisher{}
	arts := &fakeArtifacts{}
	pipe := newTestPipeline(prov, rend, pub, arts, true)

	first, err := pipe.PreviewCycle(context.Background())
	require.NoError(t, err)
	second, err := pipe.PreviewCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, []byte("png"), first.Image)
	assert.Zero(t, pub.calls)
	assert.Zero(t, arts.writes)
}

func TestPreviewCyclePropagatesFetchFailure(t *testing.T) {
	prov := goodProvider()
	prov.currentErr = errors.New("timeout")
	pipe := newTestPipeline(prov, &fakeRenderer{image: []byte("png")}, &fakePublisher{}, &fakeArtifacts{}, true)

	_, err := pipe.PreviewCycle(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailure)
}

func TestTempFileStoreWritesUniqueArtifacts(t *testing.T) {
	store := NewTempFileStore(t.TempDir())

	a, err := store.Write([]byte("one"))
	require.NoError(t, err)
	b, err := store.Write([]byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	require.NoError(t, store.Remove(a))
	require.NoError(t, store.Remove(b))
	// double remove is tolerated
	require.NoError(t, store.Remove(a))
}
