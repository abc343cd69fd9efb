package metric

import "github.com/prometheus/client_golang/prometheus"

// Collector reports store statistics at scrape time.
type Collector struct {
	size func() int
	keys *prometheus.Desc
}

// NewCollector creates a collector that reads the key count from size.
func NewCollector(size func() int) *Collector {
	return &Collector{
		size: size,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Number of keys in the store.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.size()))
}
