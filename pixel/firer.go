package pixel

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/alitto/pond"
	"github.com/golang/glog"
	"golang.org/x/net/context/ctxhttp"
)

// Firer delivers a beacon. Fire must not block, and delivery problems stay inside the Firer.
type Firer interface {
	Fire(event, uri string)
}

// FirerFunc adapts a function to Firer.
type FirerFunc func(event, uri string)

func (f FirerFunc) Fire(event, uri string) {
	f(event, uri)
}

// HTTPFirer GETs beacons from a pool of workers, the way a browser loads an image.
type HTTPFirer struct {
	client  *http.Client
	timeout time.Duration
	pool    *pond.WorkerPool
}

// NewHTTPFirer starts maxWorkers workers. Beacons beyond maxCapacity waiting ones are dropped.
func NewHTTPFirer(client *http.Client, timeout time.Duration, maxWorkers, maxCapacity int) *HTTPFirer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFirer{
		client:  client,
		timeout: timeout,
		pool:    pond.New(maxWorkers, maxCapacity),
	}
}

func (f *HTTPFirer) Fire(event, uri string) {
	if !f.pool.TrySubmit(func() { f.get(event, uri) }) {
		glog.V(2).Infof("Dropped %s pixel %s: queue is full", event, uri)
	}
}

// Close waits for queued beacons to be sent.
func (f *HTTPFirer) Close() {
	f.pool.StopAndWait()
}

func (f *HTTPFirer) get(event, uri string) {
	ctx := context.Background()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		glog.V(2).Infof("Error firing %s pixel %s: build request failed with %v", event, uri, err)
		return
	}
	httpResp, err := ctxhttp.Do(ctx, f.client, httpReq)
	if err != nil {
		glog.V(2).Infof("Error firing %s pixel %s: %v", event, uri, err)
		return
	}
	defer httpResp.Body.Close()
	io.Copy(io.Discard, httpResp.Body)

	if httpResp.StatusCode >= http.StatusBadRequest {
		glog.V(2).Infof("Error firing %s pixel %s: unexpected response status %d", event, uri, httpResp.StatusCode)
	}
}
