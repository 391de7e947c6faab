package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "mcts"

// PrometheusCollector keeps the per-search numbers of an in-memory collector
// and mirrors them into cumulative Prometheus series.
type PrometheusCollector struct {
	Collector

	Searches     prometheus.Counter
	Episodes     prometheus.Counter
	FullPlayouts prometheus.Counter
	Nodes        prometheus.Counter
	Duration     prometheus.Histogram
}

// NewPrometheusCollector registers the search series on reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	p := &PrometheusCollector{
		Collector: NewCollector(),
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Completed searches.",
		}),
		Episodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "episodes_total",
			Help:      "Select, expand, rollout and backup iterations run.",
		}),
		FullPlayouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "full_playouts_total",
			Help:      "Rollouts that reached a terminal state.",
		}),
		Nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Tree nodes created by expansion.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of one search.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	reg.MustRegister(p.Searches, p.Episodes, p.FullPlayouts, p.Nodes, p.Duration)
	return p
}

func (p *PrometheusCollector) AddEpisode() {
	p.Collector.AddEpisode()
	p.Episodes.Inc()
}

func (p *PrometheusCollector) AddFullPlayout() {
	p.Collector.AddFullPlayout()
	p.FullPlayouts.Inc()
}

func (p *PrometheusCollector) AddNodes(n int) {
	p.Collector.AddNodes(n)
	p.Nodes.Add(float64(n))
}

func (p *PrometheusCollector) Complete() SearchMetric {
	metric := p.Collector.Complete()
	p.Searches.Inc()
	p.Duration.Observe(metric.Duration.Seconds())
	return metric
}
