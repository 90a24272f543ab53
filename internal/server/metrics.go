package server

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/model"
)

const metricsNamespace = "bookingform"

// Metric label values.
const (
	resultOK        = "ok"
	resultNotFound  = "not_found"
	resultInactive  = "inactive"
	resultInvalid   = "invalid"
	resultRejected  = "rejected"
	resultFailed    = "failed"
	resultMalformed = "malformed"
)

// Metrics counts form loads, submissions and uploads.
type Metrics struct {
	loads       *prometheus.CounterVec
	submissions *prometheus.CounterVec
	uploads     *prometheus.CounterVec
}

// NewMetrics registers the service collectors on reg. sessions, when set,
// backs the open sessions gauge.
func NewMetrics(reg prometheus.Registerer, sessions func() int) (*Metrics, error) {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "form_loads_total",
			Help:      "Form descriptor loads by result",
		}, []string{"result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submissions_total",
			Help:      "Booking submissions by mode and result",
		}, []string{"mode", "result"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "uploads_total",
			Help:      "Image uploads by result",
		}, []string{"result"}),
	}

	collectors := []prometheus.Collector{m.loads, m.submissions, m.uploads}
	if sessions != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_open",
			Help:      "Open form sessions",
		}, func() float64 { return float64(sessions()) }))
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) load(err error) {
	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, apierrors.ErrFormNotFound):
		result = resultNotFound
	case errors.Is(err, apierrors.ErrFormInactive):
		result = resultInactive
	case errors.Is(err, apierrors.ErrFormMalformed):
		result = resultMalformed
	default:
		result = resultFailed
	}
	m.loads.WithLabelValues(result).Inc()
}

func (m *Metrics) submission(mode model.Mode, result string) {
	m.submissions.WithLabelValues(string(mode), result).Inc()
}

func (m *Metrics) upload(err error) {
	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, apierrors.ErrInvalidImage), errors.Is(err, apierrors.ErrImageTooLarge):
		result = resultRejected
	default:
		result = resultFailed
	}
	m.uploads.WithLabelValues(result).Inc()
}
