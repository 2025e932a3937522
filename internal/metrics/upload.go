// Package metrics holds the domain collectors of the upload pipeline. HTTP request
// metrics live in the http middleware.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upload outcomes.
const (
	OutcomeStored   = "stored"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// UploadRecorder receives pipeline events.
type UploadRecorder interface {
	Upload(mediaType, outcome string)
	VideoDuration(seconds float64)
}

// Upload is the Prometheus UploadRecorder.
type Upload struct {
	uploads  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewUpload creates the collectors and registers them with reg.
func NewUpload(reg prometheus.Registerer) (*Upload, error) {
	u := &Upload{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_uploads_total",
				Help: "Media uploads by classified type and outcome.",
			},
			[]string{"media_type", "outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "media_video_duration_seconds",
			Help:    "Probed duration of uploaded videos, accepted or not.",
			Buckets: []float64{1, 5, 10, 15, 20, 25, 30, 45, 60, 120},
		}),
	}
	for _, c := range []prometheus.Collector{u.uploads, u.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (u *Upload) Upload(mediaType, outcome string) {
	if mediaType == "" {
		mediaType = "unknown"
	}
	u.uploads.WithLabelValues(mediaType, outcome).Inc()
}

func (u *Upload) VideoDuration(seconds float64) {
	u.duration.Observe(seconds)
}

type nop struct{}

func (nop) Upload(string, string) {}
func (nop) VideoDuration(float64) {}

// Nop discards everything.
func Nop() UploadRecorder { return nop{} }
