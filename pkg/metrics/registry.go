package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRegistry builds a fresh Prometheus registry seeded with the standard
// process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	reg.MustRegister(prometheus.NewGoCollector())
	return reg
}
