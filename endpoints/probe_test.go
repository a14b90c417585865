package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/probe"
	"github.com/stretchr/testify/assert"
)

type fakeProber struct {
	report *probe.Report
	err    error
	uris   []string
}

func (p *fakeProber) Probe(ctx context.Context, uri string) (*probe.Report, error) {
	p.uris = append(p.uris, uri)
	return p.report, p.err
}

func TestProbeEndpoint(t *testing.T) {
	report := &probe.Report{
		URI:     "https://ads.example.com/tag.xml",
		Version: "3.0",
		Backend: "html_video",
		Beacons: map[string][]string{"impression": {"https://t.example.com/imp"}},
	}

	testCases := []struct {
		description         string
		query               string
		proberErr           error
		expectedStatus      int
		expectedContentType string
		expectedBody        string
		expectedProbes      int
	}{
		{
			description:         "JSON By Default",
			query:               "uri=https%3A%2F%2Fads.example.com%2Ftag.xml",
			expectedStatus:      http.StatusOK,
			expectedContentType: "application/json",
			expectedBody:        `"backend": "html_video"`,
			expectedProbes:      1,
		},
		{
			description:         "YAML",
			query:               "uri=https%3A%2F%2Fads.example.com%2Ftag.xml&format=yaml",
			expectedStatus:      http.StatusOK,
			expectedContentType: "application/x-yaml",
			expectedBody:        "backend: html_video",
			expectedProbes:      1,
		},
		{
			description:    "Missing URI",
			query:          "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "missing required parameter uri",
		},
		{
			description:    "Not A URL",
			query:          "uri=not%20a%20url",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "is not a URL",
		},
		{
			description:    "Unknown Format",
			query:          "uri=https%3A%2F%2Fads.example.com%2Ftag.xml&format=xml",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `unknown format "xml"`,
		},
		{
			description:    "Upstream Failure",
			query:          "uri=https%3A%2F%2Fads.example.com%2Ftag.xml",
			proberErr:      &errortypes.FetchFailure{Message: "Error fetching VAST: unexpected response status 404"},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "unexpected response status 404",
			expectedProbes: 1,
		},
		{
			description:    "Timeout",
			query:          "uri=https%3A%2F%2Fads.example.com%2Ftag.xml",
			proberErr:      fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			expectedStatus: http.StatusGatewayTimeout,
			expectedProbes: 1,
		},
	}

	for _, test := range testCases {
		prober := &fakeProber{report: report, err: test.proberErr}
		endpoint := NewProbeEndpoint(prober)
		request := httptest.NewRequest("GET", "/probe?"+test.query, nil)
		recorder := httptest.NewRecorder()

		endpoint(recorder, request, httprouter.Params{})

		assert.Equal(t, test.expectedStatus, recorder.Code, test.description)
		assert.Contains(t, recorder.Body.String(), test.expectedBody, test.description)
		if test.expectedContentType != "" {
			assert.Equal(t, test.expectedContentType, recorder.Header().Get("Content-Type"), test.description)
		}
		assert.Len(t, prober.uris, test.expectedProbes, test.description)
	}
}

func TestStatusEndpoint(t *testing.T) {
	recorder := httptest.NewRecorder()
	NewStatusEndpoint()(recorder, httptest.NewRequest("GET", "/status", nil), nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
