package vast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/metrics"
	"golang.org/x/net/context/ctxhttp"
)

// Options control a single fetch.
type Options struct {
	// ResolveWrappers follows <Wrapper> ads until an inline ad is found.
	ResolveWrappers bool
	// MaxRedirects bounds how many wrappers may be followed.
	MaxRedirects int
	// Headers are sent with every request, wrapper hops included.
	Headers map[string]string
}

// Fetcher retrieves and validates VAST documents.
type Fetcher interface {
	Fetch(ctx context.Context, uri string, opts Options) (*Manifest, error)
}

// NewHTTPFetcher returns a Fetcher which GETs tags with client. Every request is recorded
// on metricsEngine.
func NewHTTPFetcher(client *http.Client, metricsEngine metrics.MetricsEngine) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if metricsEngine == nil {
		metricsEngine = metrics.NewNilMetricsEngine()
	}
	return &HTTPFetcher{
		client:  client,
		metrics: metricsEngine,
	}
}

type HTTPFetcher struct {
	client  *http.Client
	metrics metrics.MetricsEngine
}

func (fetcher *HTTPFetcher) Fetch(ctx context.Context, uri string, opts Options) (*Manifest, error) {
	var wrappers []*Manifest
	for {
		manifest, err := fetcher.fetchOne(ctx, uri, opts.Headers)
		if err != nil {
			return nil, err
		}
		if !opts.ResolveWrappers || !manifest.IsWrapper() {
			return manifest.withWrappers(wrappers), nil
		}
		if len(wrappers) >= opts.MaxRedirects {
			return nil, &errortypes.FetchFailure{
				Message: fmt.Sprintf("Error fetching VAST %s: more than %d wrapper redirects", uri, opts.MaxRedirects),
			}
		}
		next, err := resolveReference(uri, manifest.AdTagURI())
		if err != nil {
			return nil, &errortypes.FetchFailure{
				Message: fmt.Sprintf("Error fetching VAST %s: bad VASTAdTagURI: %v", uri, err),
				Cause:   err,
			}
		}
		wrappers = append(wrappers, manifest)
		uri = next
	}
}

func (fetcher *HTTPFetcher) fetchOne(ctx context.Context, uri string, headers map[string]string) (manifest *Manifest, err error) {
	start := time.Now()
	defer func() {
		status := metrics.FetchStatusOK
		if err != nil {
			status = metrics.FetchStatusErr
		}
		fetcher.metrics.RecordManifestFetch(status, time.Since(start))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		return nil, fetchFailure(uri, "build request failed with %v", err)
	}
	for name, value := range headers {
		httpReq.Header.Set(name, value)
	}

	httpResp, err := ctxhttp.Do(ctx, fetcher.client, httpReq)
	if err != nil {
		return nil, fetchFailure(uri, "%v", err)
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fetchFailure(uri, "error reading response: %v", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &errortypes.FetchFailure{
			Message: fmt.Sprintf("Error fetching VAST %s: unexpected response status %d", uri, httpResp.StatusCode),
		}
	}

	manifest, err = Parse(respBytes)
	if err != nil {
		return nil, fetchFailure(uri, "%v", err)
	}
	if err = manifest.Validate(); err != nil {
		return nil, fetchFailure(uri, "%v", err)
	}
	return manifest, nil
}

func fetchFailure(uri, format string, cause error) error {
	return &errortypes.FetchFailure{
		Message: fmt.Sprintf("Error fetching VAST %s: ", uri) + fmt.Sprintf(format, cause),
		Cause:   cause,
	}
}

// resolveReference resolves a wrapper's VASTAdTagURI against the URI of the wrapper itself.
func resolveReference(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
