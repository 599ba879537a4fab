// internal/metrics/recorder.go

// Package metrics defines the observability hooks of the build pipeline and a
// Prometheus-backed implementation.
package metrics

import "time"

// BuildOutcome labels the end state of one build pass.
type BuildOutcome string

const (
	OutcomeSuccess BuildOutcome = "success"
	OutcomeFailed  BuildOutcome = "failed"
)

// MediaResult labels how the media cache answered a lookup.
type MediaResult string

const (
	MediaHit     MediaResult = "hit"     // file already on disk
	MediaFetched MediaResult = "fetched" // downloaded during this lookup
	MediaSkipped MediaResult = "skipped" // unusable reference, image omitted
)

// Recorder receives build metrics. NoopRecorder is used when metrics are not
// configured.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcome)
	IncPageWrite(changed bool)
	IncMediaResult(result MediaResult)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)       {}
func (NoopRecorder) IncPageWrite(bool)                  {}
func (NoopRecorder) IncMediaResult(MediaResult)         {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
