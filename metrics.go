package router

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what a Reducer does with server responses.
type Metrics struct {
	Responses  prometheus.Counter
	Patches    prometheus.Counter
	Fallbacks  *prometheus.CounterVec
	PatchDepth prometheus.Histogram
}

// NewMetrics returns unregistered metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Responses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "router_server_responses_total",
			Help: "Server patch responses reduced",
		}),
		Patches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "router_server_patches_total",
			Help: "Individual patches merged into the route tree",
		}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "router_fallbacks_total",
			Help: "Responses that ended in a full navigation, by reason",
		}, []string{"reason"}),
		PatchDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "router_patch_depth",
			Help:    "Number of slots between the root and a patch",
			Buckets: prometheus.LinearBuckets(0, 1, 8),
		}),
	}
}

// Register registers the metrics on reg. Metrics another Reducer already
// registered there are shared rather than reported as an error.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if err := reg.Register(m.Responses); err != nil {
		existing, err := alreadyRegistered(err)
		if err != nil {
			return err
		}
		m.Responses = existing.(prometheus.Counter)
	}
	if err := reg.Register(m.Patches); err != nil {
		existing, err := alreadyRegistered(err)
		if err != nil {
			return err
		}
		m.Patches = existing.(prometheus.Counter)
	}
	if err := reg.Register(m.Fallbacks); err != nil {
		existing, err := alreadyRegistered(err)
		if err != nil {
			return err
		}
		m.Fallbacks = existing.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.PatchDepth); err != nil {
		existing, err := alreadyRegistered(err)
		if err != nil {
			return err
		}
		m.PatchDepth = existing.(prometheus.Histogram)
	}
	return nil
}

func alreadyRegistered(err error) (prometheus.Collector, error) {
	if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
		return are.ExistingCollector, nil
	}
	return nil, err
}
