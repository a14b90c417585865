package metrics

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MetricsEngineMock is mock for the MetricsEngine interface
type MetricsEngineMock struct {
	mock.Mock
}

// RecordManifestFetch mock
func (me *MetricsEngineMock) RecordManifestFetch(status FetchStatus, length time.Duration) {
	me.Called(status, length)
}

// RecordPlayerLoad mock
func (me *MetricsEngineMock) RecordPlayerLoad(variant string, status LoadStatus) {
	me.Called(variant, status)
}

// RecordPixelFired mock
func (me *MetricsEngineMock) RecordPixelFired(event string) {
	me.Called(event)
}
