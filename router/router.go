package router

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/prebid/vast-player/endpoints"
	metricsconfig "github.com/prebid/vast-player/metrics/config"
)

// Admin builds the handler of the probe's admin server: health and version checks, tag
// probes, and the Prometheus registry when Prometheus metrics are enabled.
func Admin(revision string, prober endpoints.Prober, metricsEngine *metricsconfig.DetailedMetricsEngine) http.Handler {
	router := httprouter.New()
	router.GET("/status", endpoints.NewStatusEndpoint())
	router.HandlerFunc("GET", "/version", endpoints.NewVersionEndpoint(revision))
	router.GET("/probe", endpoints.NewProbeEndpoint(prober))

	if metricsEngine != nil {
		if registry := metricsEngine.PrometheusRegistry(); registry != nil {
			router.Handler("GET", "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
				ErrorLog:            loggerForPrometheus{},
				MaxRequestsInFlight: 5,
			}))
		}
	}

	return SupportCORS(NoCache{Handler: router})
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}})
	return c.Handler(handler)
}

type loggerForPrometheus struct{}

func (loggerForPrometheus) Println(v ...interface{}) {
	glog.Warningln(v...)
}
