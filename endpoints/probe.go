package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"

	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/probe"
)

const (
	uriParameter    = "uri"
	formatParameter = "format"
)

// Prober is what the probe endpoint asks about a tag.
type Prober interface {
	Probe(ctx context.Context, uri string) (*probe.Report, error)
}

// NewProbeEndpoint reports how the tag in the uri query parameter would be played. The
// format parameter picks json (default) or yaml.
func NewProbeEndpoint(prober Prober) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		uri, format, err := parseProbeRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Invalid request: %s\n", err.Error())
			return
		}

		report, err := prober.Probe(r.Context(), uri)
		if err != nil {
			glog.V(2).Infof("Probe of %s failed: %v", uri, err)
			w.WriteHeader(probeStatus(err))
			fmt.Fprintf(w, "Probe failed: %s\n", err.Error())
			return
		}

		if format == probe.FormatYAML {
			w.Header().Set("Content-Type", "application/x-yaml")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		if err := report.Encode(w, format); err != nil {
			glog.Errorf("Error encoding probe report for %s: %v", uri, err)
		}
	}
}

func parseProbeRequest(r *http.Request) (uri string, format string, err error) {
	query := r.URL.Query()

	uri = query.Get(uriParameter)
	if uri == "" {
		return "", "", errors.New("missing required parameter uri")
	}
	if !govalidator.IsURL(uri) {
		return "", "", fmt.Errorf("uri %q is not a URL", uri)
	}

	format = query.Get(formatParameter)
	switch format {
	case "":
		format = probe.FormatJSON
	case probe.FormatJSON, probe.FormatYAML:
	default:
		return "", "", fmt.Errorf("unknown format %q", format)
	}
	return uri, format, nil
}

func probeStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if errortypes.ReadCode(err) == errortypes.FetchFailureErrorCode {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
