package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/prebid/vast-player/config"
	"github.com/prebid/vast-player/metrics"
	metricsconfig "github.com/prebid/vast-player/metrics/config"
	"github.com/prebid/vast-player/probe"
	"github.com/prebid/vast-player/router"
	"github.com/prebid/vast-player/server"
	"github.com/prebid/vast-player/vast"
)

// Rev holds binary revision string
// Set manually at build time using:
//    go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

var (
	tagURI = flag.String("tag", "", "VAST tag to probe")
	format = flag.String("format", probe.FormatYAML, "report format, yaml or json")
	serve  = flag.Bool("serve", false, "serve /probe, /status and /metrics on admin_port")
)

func main() {
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	metricsEngine := metricsconfig.NewMetricsEngine(cfg)
	prober := probe.New(newFetcher(cfg, metricsEngine), cfg.Player)

	if *tagURI != "" {
		if err := writeReport(context.Background(), os.Stdout, prober, *tagURI, *format); err != nil {
			glog.Exitf("Probe of %s failed: %v", *tagURI, err)
		}
	}

	if *serve {
		if err := server.Listen(cfg, router.Admin(Rev, prober, metricsEngine)); err != nil {
			glog.Exitf("vast-player failed: %v", err)
		}
	}
}

const configFileName = "vast-player"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func newFetcher(cfg *config.Configuration, metricsEngine metrics.MetricsEngine) vast.Fetcher {
	var fetcher vast.Fetcher = vast.NewHTTPFetcher(&http.Client{}, metricsEngine)
	if ttl := cfg.Player.VAST.CacheTTL(); ttl > 0 {
		fetcher = vast.NewCachingFetcher(fetcher, ttl)
	}
	return fetcher
}

func writeReport(ctx context.Context, w io.Writer, prober *probe.Prober, uri, format string) error {
	report, err := prober.Probe(ctx, uri)
	if err != nil {
		return err
	}
	return report.Encode(w, format)
}
