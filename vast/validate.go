package vast

import (
	"errors"
	"fmt"

	"github.com/prebid/vast-player/errortypes"
)

// Validate checks the structure a player depends on: a versioned <VAST> root holding an ad
// which is either a complete inline ad or a wrapper pointing somewhere.
func (m *Manifest) Validate() error {
	var errs []error

	root := m.doc.Root()
	if root == nil || root.Tag != "VAST" {
		return errortypes.NewAggregateErrors("Invalid VAST", []error{errors.New("document has no <VAST> root element")})
	}
	if root.SelectAttr("version") == nil {
		errs = append(errs, errors.New("<VAST> has no version attribute"))
	}

	switch {
	case m.ad == nil:
		errs = append(errs, errors.New("<VAST> holds no <Ad>"))
	case m.IsWrapper():
		if m.AdTagURI() == "" {
			errs = append(errs, errors.New("<Wrapper> has no <VASTAdTagURI>"))
		}
	case m.ad.SelectElement("InLine") != nil:
		errs = validateInline(m, errs)
	default:
		errs = append(errs, errors.New("<Ad> has neither <InLine> nor <Wrapper>"))
	}

	if len(errs) > 0 {
		return errortypes.NewAggregateErrors("Invalid VAST", errs)
	}
	return nil
}

func validateInline(m *Manifest, errs []error) []error {
	inline := m.body()
	for _, required := range []string{"AdSystem", "AdTitle"} {
		if inline.SelectElement(required) == nil {
			errs = append(errs, fmt.Errorf("<InLine> has no <%s>", required))
		}
	}
	if len(inline.SelectElements("Impression")) == 0 {
		errs = append(errs, errors.New("<InLine> has no <Impression>"))
	}
	if inline.FindElement("Creatives/Creative") == nil {
		errs = append(errs, errors.New("<InLine> has no <Creative>"))
	}
	for i, file := range m.MediaFiles() {
		if file.URI == "" {
			errs = append(errs, fmt.Errorf("<MediaFile> %d has no URI", i))
		}
		if file.Type == "" {
			errs = append(errs, fmt.Errorf("<MediaFile> %d has no type", i))
		}
	}
	return errs
}
