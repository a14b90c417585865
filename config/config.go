package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validator "github.com/asaskevich/govalidator"
	"github.com/golang/glog"
	"github.com/prebid/vast-player/errortypes"
	"github.com/spf13/viper"
	"github.com/xorcare/pointer"
)

// Configuration
type Configuration struct {
	Player  Player  `mapstructure:"player"`
	Metrics Metrics `mapstructure:"metrics"`
	// AdminPort is where -serve exposes the probe and metrics endpoints.
	AdminPort int `mapstructure:"admin_port"`
}

// Player holds what a VAST player needs besides its container.
type Player struct {
	VAST     VAST     `mapstructure:"vast"`
	Tracking Tracking `mapstructure:"tracking"`
	// SWFLocation overrides the published location of the Flash VPAID bridge.
	SWFLocation string `mapstructure:"swf_location"`
}

// VAST configures how tags are fetched.
type VAST struct {
	// ResolveWrappers follows <Wrapper> ads to their inline ad. Nil means true.
	ResolveWrappers *bool             `mapstructure:"resolve_wrappers"`
	MaxRedirects    int               `mapstructure:"max_redirects"`
	Headers         map[string]string `mapstructure:"headers"`
	TimeoutMS       int               `mapstructure:"timeout_ms"`
	// CacheTTLSeconds keeps fetched manifests in memory. Zero disables the cache.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// Tracking configures how beacons are fired.
type Tracking struct {
	// Mapper rewrites every beacon URL before it is fired. It can't be loaded from a file.
	Mapper       func(uri string) string `mapstructure:"-"`
	ExpandMacros bool                    `mapstructure:"expand_macros"`
	TimeoutMS    int                     `mapstructure:"timeout_ms"`
}

type Metrics struct {
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
	GoMetrics  GoMetrics         `mapstructure:"gometrics"`
}

type PrometheusMetrics struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

type GoMetrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Prefix  string `mapstructure:"prefix"`
}

const (
	DefaultMaxRedirects     = 5
	DefaultFetchTimeoutMS   = 5000
	DefaultPixelTimeoutMS   = 2000
	defaultMetricsPrefix    = "vastplayer."
	defaultMetricsNamespace = "vastplayer"
)

// New uses viper to get our player configuration.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}
	c.Player.Tracking.Mapper = identity

	if errs := c.Validate(); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}
	glog.Infof("Config loaded: resolve_wrappers=%t max_redirects=%d", c.Player.ResolveWrappers(), c.Player.VAST.MaxRedirects)
	return &c, nil
}

// SetupViper registers the defaults and environment bindings. filename may be empty, in which
// case only defaults and the environment are used.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("admin_port", 0)
	v.SetDefault("player.vast.resolve_wrappers", true)
	v.SetDefault("player.vast.max_redirects", DefaultMaxRedirects)
	v.SetDefault("player.vast.headers", map[string]string{})
	v.SetDefault("player.vast.timeout_ms", DefaultFetchTimeoutMS)
	v.SetDefault("player.vast.cache_ttl_seconds", 0)
	v.SetDefault("player.tracking.expand_macros", false)
	v.SetDefault("player.tracking.timeout_ms", DefaultPixelTimeoutMS)
	v.SetDefault("player.swf_location", "")
	v.SetDefault("metrics.prometheus.enabled", false)
	v.SetDefault("metrics.prometheus.namespace", defaultMetricsNamespace)
	v.SetDefault("metrics.prometheus.subsystem", "")
	v.SetDefault("metrics.gometrics.enabled", false)
	v.SetDefault("metrics.gometrics.prefix", defaultMetricsPrefix)

	v.SetEnvPrefix("VAST_PLAYER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.ReadInConfig()
}

// Validate returns every problem found in the configuration.
func (cfg *Configuration) Validate() []error {
	var errs []error
	errs = cfg.Player.validate(errs)
	if cfg.AdminPort < 0 {
		errs = append(errs, fmt.Errorf("admin_port must be >= 0. Got %d", cfg.AdminPort))
	}
	return errs
}

func (p Player) validate(errs []error) []error {
	if p.VAST.MaxRedirects < 0 {
		errs = append(errs, fmt.Errorf("player.vast.max_redirects must be >= 0. Got %d", p.VAST.MaxRedirects))
	}
	if p.VAST.TimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("player.vast.timeout_ms must be >= 0. Got %d", p.VAST.TimeoutMS))
	}
	if p.VAST.CacheTTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("player.vast.cache_ttl_seconds must be >= 0. Got %d", p.VAST.CacheTTLSeconds))
	}
	if p.Tracking.TimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("player.tracking.timeout_ms must be >= 0. Got %d", p.Tracking.TimeoutMS))
	}
	if p.SWFLocation != "" && !isValidURL(p.SWFLocation) {
		errs = append(errs, errors.New("Invalid player.swf_location"))
	}
	return errs
}

// WithDefaults fills what a Player built by hand left empty. Zero values count as unset.
func (p Player) WithDefaults() Player {
	if p.VAST.ResolveWrappers == nil {
		p.VAST.ResolveWrappers = pointer.Bool(true)
	}
	if p.VAST.MaxRedirects == 0 {
		p.VAST.MaxRedirects = DefaultMaxRedirects
	}
	if p.VAST.TimeoutMS == 0 {
		p.VAST.TimeoutMS = DefaultFetchTimeoutMS
	}
	if p.Tracking.TimeoutMS == 0 {
		p.Tracking.TimeoutMS = DefaultPixelTimeoutMS
	}
	if p.Tracking.Mapper == nil {
		p.Tracking.Mapper = identity
	}
	return p
}

func (p Player) ResolveWrappers() bool {
	return p.VAST.ResolveWrappers == nil || *p.VAST.ResolveWrappers
}

func (v VAST) Timeout() time.Duration {
	return time.Duration(v.TimeoutMS) * time.Millisecond
}

func (v VAST) CacheTTL() time.Duration {
	return time.Duration(v.CacheTTLSeconds) * time.Second
}

func (t Tracking) Timeout() time.Duration {
	return time.Duration(t.TimeoutMS) * time.Millisecond
}

func identity(uri string) string {
	return uri
}

// isValidURL validates the plugin runtime URL
func isValidURL(location string) bool {
	return validator.IsURL(location) && validator.IsRequestURL(location)
}
