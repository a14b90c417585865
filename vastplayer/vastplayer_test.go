package vastplayer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prebid/vast-player/config"
	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/dom/domtest"
	"github.com/prebid/vast-player/environment"
	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/metrics"
	"github.com/prebid/vast-player/pixel"
	"github.com/prebid/vast-player/players"
	"github.com/prebid/vast-player/vast"
	"github.com/prebid/vast-player/vpaid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const desktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15"

const videoTag = `<VAST version="3.0">
  <Ad>
    <InLine>
      <AdSystem>Example</AdSystem>
      <AdTitle>Video</AdTitle>
      <Impression>https://t.example.com/imp</Impression>
      <Error>https://t.example.com/err?code=[ERRORCODE]</Error>
      <Creatives>
        <Creative>
          <Linear>
            <Duration>00:00:30</Duration>
            <TrackingEvents>
              <Tracking event="start">https://t.example.com/start</Tracking>
              <Tracking event="pause">https://t.example.com/pause</Tracking>
            </TrackingEvents>
            <VideoClicks>
              <ClickThrough>https://advertiser.example.com/</ClickThrough>
              <ClickTracking>https://t.example.com/click</ClickTracking>
            </VideoClicks>
            <MediaFiles>
              <MediaFile delivery="progressive" type="video/x-flv" width="640" height="360">https://cdn.example.com/ad.flv</MediaFile>
              <MediaFile delivery="progressive" type="video/mp4" width="640" height="360" bitrate="900">https://cdn.example.com/ad.mp4</MediaFile>
            </MediaFiles>
          </Linear>
        </Creative>
      </Creatives>
    </InLine>
  </Ad>
</VAST>`

const scriptTag = `<VAST version="2.0">
  <Ad>
    <InLine>
      <AdSystem>Example</AdSystem>
      <AdTitle>Script</AdTitle>
      <Impression>https://t.example.com/imp</Impression>
      <Creatives>
        <Creative>
          <Linear>
            <AdParameters><![CDATA[{"id":42}]]></AdParameters>
            <VideoClicks>
              <ClickThrough>https://advertiser.example.com/</ClickThrough>
            </VideoClicks>
            <MediaFiles>
              <MediaFile delivery="progressive" type="application/x-shockwave-flash" apiFramework="VPAID" width="640" height="360">https://cdn.example.com/vpaid.swf</MediaFile>
              <MediaFile delivery="progressive" type="application/javascript" apiFramework="VPAID" width="640" height="360">https://cdn.example.com/vpaid.js</MediaFile>
              <MediaFile delivery="progressive" type="video/mp4" width="640" height="360">https://cdn.example.com/ad.mp4</MediaFile>
            </MediaFiles>
          </Linear>
        </Creative>
      </Creatives>
    </InLine>
  </Ad>
</VAST>`

type stubFetcher struct {
	mu    sync.Mutex
	tags  map[string]string
	calls []vast.Options
}

func (f *stubFetcher) Fetch(ctx context.Context, uri string, opts vast.Options) (*vast.Manifest, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	tag, ok := f.tags[uri]
	f.mu.Unlock()
	if !ok {
		return nil, &errortypes.FetchFailure{Message: "Error fetching VAST " + uri + ": unexpected response status 404"}
	}
	return vast.Parse([]byte(tag))
}

type recordingFirer struct {
	mu    sync.Mutex
	fired []string
}

func (f *recordingFirer) Fire(event, uri string) {
	f.mu.Lock()
	f.fired = append(f.fired, uri)
	f.mu.Unlock()
}

func (f *recordingFirer) count(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, fired := range f.fired {
		if fired == uri {
			n++
		}
	}
	return n
}

type fixture struct {
	player    *VASTPlayer
	container *domtest.Container
	firer     *recordingFirer
	fetcher   *stubFetcher
	callbacks *players.CallbackRegistry
}

func newFixture(cfg config.Player, metricsEngine metrics.MetricsEngine) *fixture {
	f := &fixture{
		container: domtest.NewContainer(640, 360),
		firer:     &recordingFirer{},
		fetcher: &stubFetcher{tags: map[string]string{
			"https://ads.example.com/video.xml":  videoTag,
			"https://ads.example.com/script.xml": scriptTag,
		}},
		callbacks: players.NewCallbackRegistry(),
	}
	f.container.Doc.NewPlugin = func(params dom.PluginParams) *domtest.PluginObject {
		return domtest.NewPluginObject(domtest.NewAdUnit(), f.callbacks.Dispatch)
	}
	f.player = New(f.container, cfg, Options{
		Fetcher:       f.fetcher,
		Env:           environment.New(desktopUserAgent, []string{vpaid.MIMEFlash}, environment.DefaultProber),
		MetricsEngine: metricsEngine,
		Firer:         f.firer,
		Callbacks:     f.callbacks,
	})
	return f
}

func countEvents(p *VASTPlayer, event string) *int {
	var mu sync.Mutex
	n := 0
	p.On(event, func(args ...any) {
		mu.Lock()
		n++
		mu.Unlock()
	})
	return &n
}

func TestLoadVideo(t *testing.T) {
	metricsEngine := &metrics.MetricsEngineMock{}
	metricsEngine.On("RecordPlayerLoad", "html_video", metrics.LoadStatusOK).Return()
	f := newFixture(config.Player{}.WithDefaults(), metricsEngine)
	ready := countEvents(f.player, EventReady)
	impressions := countEvents(f.player, vpaid.AdImpression)

	require.NoError(t, f.player.Load(context.Background(), "https://ads.example.com/video.xml"))

	assert.True(t, f.player.Ready())
	assert.Equal(t, 1, *ready)
	require.NotNil(t, f.player.Vast())
	assert.Equal(t, "3.0", f.player.Vast().Version())
	require.Len(t, f.container.Doc.Videos, 1)
	assert.Equal(t, "https://cdn.example.com/ad.mp4", f.container.Doc.Videos[0].Source())
	assert.Equal(t, vast.Options{ResolveWrappers: true, MaxRedirects: config.DefaultMaxRedirects}, f.fetcher.calls[0])
	metricsEngine.AssertExpectations(t)

	duration, err := f.player.AdDuration()
	require.NoError(t, err)
	assert.Equal(t, 30.0, duration)

	ctx := context.Background()
	require.NoError(t, f.player.StartAd(ctx))
	require.NoError(t, f.player.PauseAd(ctx))
	require.NoError(t, f.player.ResumeAd(ctx))
	require.NoError(t, f.player.PauseAd(ctx))
	require.NoError(t, f.player.ResumeAd(ctx))

	assert.Equal(t, 1, *impressions)
	assert.Equal(t, 1, f.firer.count("https://t.example.com/imp"))
	assert.Equal(t, 2, f.firer.count("https://t.example.com/pause"))

	require.NoError(t, f.player.StopAd(ctx))
	assert.Empty(t, f.container.Children())
}

func TestLoadSelectsBackend(t *testing.T) {
	testCases := []struct {
		description     string
		tag             string
		expectedVariant players.Variant
	}{
		{
			description:     "Script Beats Flash And Video",
			tag:             scriptTag,
			expectedVariant: players.JavaScriptVPAIDVariant,
		},
		{
			description:     "Flash Beats Video",
			tag:             strings.Replace(scriptTag, `type="application/javascript"`, `type="text/plain"`, 1),
			expectedVariant: players.FlashVPAIDVariant,
		},
		{
			description:     "Video Otherwise",
			tag:             videoTag,
			expectedVariant: players.HTMLVideoVariant,
		},
	}

	for _, test := range testCases {
		metricsEngine := &metrics.MetricsEngineMock{}
		metricsEngine.On("RecordPlayerLoad", test.expectedVariant.String(), metrics.LoadStatusOK).Return()
		f := newFixture(config.Player{}.WithDefaults(), metricsEngine)
		f.fetcher.tags["https://ads.example.com/tag.xml"] = test.tag

		require.NoError(t, f.player.Load(context.Background(), "https://ads.example.com/tag.xml"), test.description)

		metricsEngine.AssertExpectations(t)
		assert.True(t, f.player.Ready(), test.description)
	}
}

func TestLoadScriptPassesParameters(t *testing.T) {
	f := newFixture(config.Player{}.WithDefaults(), nil)

	require.NoError(t, f.player.Load(context.Background(), "https://ads.example.com/script.xml"))

	require.Len(t, f.container.Doc.Frames, 1)
	frame := f.container.Doc.Frames[0]
	assert.Equal(t, []string{"https://cdn.example.com/vpaid.js"}, frame.Scripts())
	inits := frame.Unit.Inits()
	require.Len(t, inits, 1)
	assert.Equal(t, `{"id":42}`, inits[0].CreativeData.AdParameters)
}

func TestLoadFailures(t *testing.T) {
	testCases := []struct {
		description  string
		uri          string
		tag          string
		expectedCode int
		expectedVast bool
	}{
		{
			description:  "Fetch Failure",
			uri:          "https://ads.example.com/missing.xml",
			expectedCode: errortypes.FetchFailureErrorCode,
		},
		{
			description:  "Nothing Playable",
			uri:          "https://ads.example.com/flv.xml",
			tag:          strings.Replace(videoTag, `type="video/mp4"`, `type="video/x-ms-wmv"`, 1),
			expectedCode: errortypes.NoPlayableMediaErrorCode,
			expectedVast: true,
		},
	}

	for _, test := range testCases {
		metricsEngine := &metrics.MetricsEngineMock{}
		metricsEngine.On("RecordPlayerLoad", "html_video", metrics.LoadStatusErr).Return()
		f := newFixture(config.Player{}.WithDefaults(), metricsEngine)
		if test.tag != "" {
			f.fetcher.tags[test.uri] = test.tag
		}
		var emitted []error
		f.player.On(EventError, func(args ...any) {
			err, _ := args[0].(error)
			emitted = append(emitted, err)
		})
		ready := countEvents(f.player, EventReady)

		err := f.player.Load(context.Background(), test.uri)

		require.Error(t, err, test.description)
		assert.Equal(t, test.expectedCode, errortypes.ReadCode(err), test.description)
		assert.True(t, errortypes.IsFatal(err), test.description)
		assert.Equal(t, []error{err}, emitted, test.description)
		assert.Equal(t, 0, *ready, test.description)
		assert.False(t, f.player.Ready(), test.description)
		assert.Equal(t, test.expectedVast, f.player.Vast() != nil, test.description)
		if !test.expectedVast {
			metricsEngine.AssertNotCalled(t, "RecordPlayerLoad", mock.Anything, mock.Anything)
		}
	}
}

func TestNotReady(t *testing.T) {
	f := newFixture(config.Player{}.WithDefaults(), nil)
	ctx := context.Background()

	calls := []struct {
		description string
		call        func() error
	}{
		{description: "StartAd", call: func() error { return f.player.StartAd(ctx) }},
		{description: "StopAd", call: func() error { return f.player.StopAd(ctx) }},
		{description: "PauseAd", call: func() error { return f.player.PauseAd(ctx) }},
		{description: "ResumeAd", call: func() error { return f.player.ResumeAd(ctx) }},
		{description: "SetAdVolume", call: func() error { return f.player.SetAdVolume(0.5) }},
		{description: "AdVolume", call: func() error { _, err := f.player.AdVolume(); return err }},
		{description: "AdDuration", call: func() error { _, err := f.player.AdDuration(); return err }},
		{description: "AdRemainingTime", call: func() error { _, err := f.player.AdRemainingTime(); return err }},
	}

	for _, test := range calls {
		err := test.call()
		var notReady *errortypes.NotReady
		require.True(t, errors.As(err, &notReady), test.description)
		assert.Equal(t, "VASTPlayer not ready.", err.Error(), test.description)
	}
}

func TestAdStatePassthrough(t *testing.T) {
	f := newFixture(config.Player{}.WithDefaults(), nil)
	require.NoError(t, f.player.Load(context.Background(), "https://ads.example.com/script.xml"))
	unit := f.container.Doc.Frames[0].Unit

	remaining, err := f.player.AdRemainingTime()
	require.NoError(t, err)
	assert.Equal(t, 15.0, remaining)

	require.NoError(t, f.player.SetAdVolume(0.25))
	volume, err := f.player.AdVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.25, volume)
	assert.Equal(t, 0.25, unit.GetAdVolume())
}

func TestClickThrough(t *testing.T) {
	testCases := []struct {
		description    string
		args           []any
		expectedOpened []string
	}{
		{description: "Manifest Destination", args: []any{"", "", true}, expectedOpened: []string{"https://advertiser.example.com/"}},
		{description: "Event Destination", args: []any{"https://elsewhere.example.com/", "id", true}, expectedOpened: []string{"https://elsewhere.example.com/"}},
		{description: "Handled By Creative", args: []any{"https://elsewhere.example.com/", "id", false}},
		{description: "Missing Arguments", args: nil},
	}

	for _, test := range testCases {
		f := newFixture(config.Player{}.WithDefaults(), nil)
		require.NoError(t, f.player.Load(context.Background(), "https://ads.example.com/script.xml"), test.description)

		f.container.Doc.Frames[0].Unit.Fire(vpaid.AdClickThru, test.args...)

		assert.Equal(t, test.expectedOpened, f.container.Doc.OpenedURLs(), test.description)
	}
}

func TestTrackingMapper(t *testing.T) {
	cfg := config.Player{}.WithDefaults()
	cfg.Tracking.Mapper = func(uri string) string {
		return "https://proxy.example.com/?u=" + uri
	}
	f := newFixture(cfg, nil)
	require.NoError(t, f.player.Load(context.Background(), "https://ads.example.com/video.xml"))

	require.NoError(t, f.player.StartAd(context.Background()))

	assert.Equal(t, 1, f.firer.count("https://proxy.example.com/?u=https://t.example.com/imp"))
	assert.Equal(t, 0, f.firer.count("https://t.example.com/imp"))
}

func TestReloadReplacesAd(t *testing.T) {
	f := newFixture(config.Player{}.WithDefaults(), nil)
	ctx := context.Background()
	require.NoError(t, f.player.Load(ctx, "https://ads.example.com/video.xml"))
	first := f.player.Vast()

	require.Error(t, f.player.Load(ctx, "https://ads.example.com/missing.xml"))
	assert.False(t, f.player.Ready())
	assert.Same(t, first, f.player.Vast(), "a failed fetch keeps the previous manifest")

	require.NoError(t, f.player.Load(ctx, "https://ads.example.com/script.xml"))
	assert.True(t, f.player.Ready())
	assert.NotSame(t, first, f.player.Vast())
}

func TestReloadTearsDownPreviousAd(t *testing.T) {
	f := newFixture(config.Player{}.WithDefaults(), nil)
	ctx := context.Background()
	require.NoError(t, f.player.Load(ctx, "https://ads.example.com/video.xml"))
	require.NoError(t, f.player.StartAd(ctx))
	oldVideo := f.container.Doc.Videos[0]

	paused := countEvents(f.player, vpaid.AdPaused)
	clicks := countEvents(f.player, vpaid.AdClickThru)
	stopped := countEvents(f.player, vpaid.AdStopped)

	require.NoError(t, f.player.Load(ctx, "https://ads.example.com/script.xml"))
	assert.Len(t, f.container.Children(), 1)
	assert.True(t, oldVideo.Paused())

	oldVideo.Fire(dom.MediaPause)
	oldVideo.Fire(dom.Click)

	require.NoError(t, f.player.Load(ctx, "https://ads.example.com/video.xml"))
	assert.Len(t, f.container.Children(), 1)

	oldUnit := f.container.Doc.Frames[0].Unit
	oldUnit.Fire(vpaid.AdPaused)
	oldUnit.Fire(vpaid.AdClickThru, "https://other.example.com/", "", true)

	assert.Equal(t, 0, *paused)
	assert.Equal(t, 0, *clicks)
	assert.Equal(t, 0, *stopped)
	assert.Empty(t, f.container.Doc.OpenedURLs())
	assert.True(t, f.player.Ready())
}

func TestNewDefaults(t *testing.T) {
	var requests []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/tag.xml" {
			w.Write([]byte(strings.ReplaceAll(videoTag, "https://t.example.com", "http://"+r.Host)))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := config.Player{}.WithDefaults()
	cfg.VAST.CacheTTLSeconds = 60
	container := domtest.NewContainer(640, 360)
	player := New(container, cfg, Options{})
	ctx := context.Background()

	require.NoError(t, player.Load(ctx, server.URL+"/tag.xml"))
	require.NoError(t, player.Load(ctx, server.URL+"/tag.xml"))
	require.NoError(t, player.StartAd(ctx))
	player.Close()

	assert.Equal(t, []string{"/tag.xml", "/imp"}, requests, "the second load is served from cache")
}

var _ pixel.Host = (*VASTPlayer)(nil)
