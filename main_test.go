package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prebid/vast-player/config"
	"github.com/prebid/vast-player/metrics"
	"github.com/prebid/vast-player/probe"
	"github.com/prebid/vast-player/vast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tag = `<VAST version="3.0"><Ad><InLine>
<AdSystem>Example</AdSystem><AdTitle>Video</AdTitle>
<Impression>https://t.example.com/imp</Impression>
<Creatives><Creative><Linear><MediaFiles>
<MediaFile type="video/mp4" width="640" height="360">https://cdn.example.com/ad.mp4</MediaFile>
</MediaFiles></Linear></Creative></Creatives>
</InLine></Ad></VAST>`

func TestLoadConfig(t *testing.T) {
	t.Setenv("VAST_PLAYER_PLAYER_VAST_MAX_REDIRECTS", "2")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Player.VAST.MaxRedirects)
	assert.True(t, cfg.Player.ResolveWrappers())
}

func TestNewFetcher(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(tag))
	}))
	defer server.Close()

	testCases := []struct {
		description      string
		cacheTTLSeconds  int
		expectedRequests int
	}{
		{description: "Uncached", cacheTTLSeconds: 0, expectedRequests: 2},
		{description: "Cached", cacheTTLSeconds: 60, expectedRequests: 1},
	}

	for _, test := range testCases {
		requests = 0
		cfg := &config.Configuration{}
		cfg.Player.VAST.CacheTTLSeconds = test.cacheTTLSeconds
		metricsEngine := &metrics.MetricsEngineMock{}
		metricsEngine.On("RecordManifestFetch", metrics.FetchStatusOK, mock.Anything).Return()
		fetcher := newFetcher(cfg, metricsEngine)

		for i := 0; i < 2; i++ {
			_, err := fetcher.Fetch(context.Background(), server.URL, vast.Options{})
			require.NoError(t, err, test.description)
		}

		assert.Equal(t, test.expectedRequests, requests, test.description)
		metricsEngine.AssertNumberOfCalls(t, "RecordManifestFetch", test.expectedRequests)
	}
}

func TestWriteReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tag.xml" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(tag))
	}))
	defer server.Close()
	prober := probe.New(vast.NewHTTPFetcher(server.Client(), nil), config.Player{}.WithDefaults())

	var out bytes.Buffer
	require.NoError(t, writeReport(context.Background(), &out, prober, server.URL+"/tag.xml", probe.FormatYAML))
	assert.Contains(t, out.String(), "backend: html_video\n")
	assert.Contains(t, out.String(), "- https://t.example.com/imp\n")

	out.Reset()
	assert.Error(t, writeReport(context.Background(), &out, prober, server.URL+"/missing.xml", probe.FormatYAML))
	assert.Empty(t, out.String())
}
