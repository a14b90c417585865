// Package probe reports what a VASTPlayer would do with a tag without playing it: which
// backend it picks, with which media files, and which beacons it would fire.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"
	"gopkg.in/yaml.v2"

	"github.com/prebid/vast-player/config"
	"github.com/prebid/vast-player/pixel"
	"github.com/prebid/vast-player/vast"
	"github.com/prebid/vast-player/vastplayer"
)

// Report describes one tag.
type Report struct {
	URI          string              `json:"uri" yaml:"uri"`
	Version      string              `json:"version" yaml:"version"`
	Wrappers     []string            `json:"wrappers,omitempty" yaml:"wrappers,omitempty"`
	Backend      string              `json:"backend" yaml:"backend"`
	MediaFiles   []MediaFile         `json:"media_files" yaml:"media_files"`
	AdParameters string              `json:"ad_parameters,omitempty" yaml:"ad_parameters,omitempty"`
	ClickThrough string              `json:"click_through,omitempty" yaml:"click_through,omitempty"`
	Beacons      map[string][]string `json:"beacons" yaml:"beacons"`
}

// MediaFile is a media file the chosen backend would be given.
type MediaFile struct {
	URI          string `json:"uri" yaml:"uri"`
	Type         string `json:"type" yaml:"type"`
	APIFramework string `json:"api_framework,omitempty" yaml:"api_framework,omitempty"`
	Width        int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height       int    `json:"height,omitempty" yaml:"height,omitempty"`
	Bitrate      int    `json:"bitrate,omitempty" yaml:"bitrate,omitempty"`
}

type Prober struct {
	fetcher vast.Fetcher
	cfg     config.Player
}

func New(fetcher vast.Fetcher, cfg config.Player) *Prober {
	return &Prober{fetcher: fetcher, cfg: cfg}
}

// Probe fetches uri the way a VASTPlayer configured like p would.
func (p *Prober) Probe(ctx context.Context, uri string) (*Report, error) {
	if timeout := p.cfg.VAST.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	manifest, err := p.fetcher.Fetch(ctx, uri, vast.Options{
		ResolveWrappers: p.cfg.ResolveWrappers(),
		MaxRedirects:    p.cfg.VAST.MaxRedirects,
		Headers:         p.cfg.VAST.Headers,
	})
	if err != nil {
		return nil, err
	}

	variant, mediaFiles := vastplayer.SelectBackend(manifest)
	reporter := pixel.NewReporter(vastplayer.Beacons(manifest), p.cfg.Tracking.Mapper, pixel.Options{})

	return &Report{
		URI:     uri,
		Version: manifest.Version(),
		Wrappers: lo.Map(manifest.Wrappers(), func(wrapper *vast.Manifest, _ int) string {
			return wrapper.AdTagURI()
		}),
		Backend: variant.String(),
		MediaFiles: lo.Map(mediaFiles, func(mediaFile vast.MediaFile, _ int) MediaFile {
			return MediaFile{
				URI:          mediaFile.URI,
				Type:         mediaFile.Type,
				APIFramework: mediaFile.APIFramework,
				Width:        mediaFile.Width,
				Height:       mediaFile.Height,
				Bitrate:      mediaFile.Bitrate,
			}
		}),
		AdParameters: manifest.AdParameters(),
		ClickThrough: manifest.ClickThrough(),
		Beacons: lo.SliceToMap(reporter.Events(), func(event string) (string, []string) {
			return event, reporter.Pixels(event)
		}),
	}, nil
}

// Output formats understood by Report.Encode.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Encode writes r to w in format.
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	}
	return fmt.Errorf("unknown report format %q", format)
}
