package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bagstore"

// Collector holds the business counters every process exposes on /metrics.
type Collector struct {
	ordersPlaced   *prometheus.CounterVec
	couponsApplied *prometheus.CounterVec
	cartMutations  *prometheus.CounterVec
}

func NewCollector() *Collector {
	return &Collector{
		ordersPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_placed_total",
				Help:      "The number of order placements by outcome.",
			}, []string{"outcome"},
		),
		couponsApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "coupons_applied_total",
				Help:      "The number of coupon applications by outcome.",
			}, []string{"outcome"},
		),
		cartMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_mutations_total",
				Help:      "The number of cart mutations by operation.",
			}, []string{"operation"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.ordersPlaced.Describe(ch)
	c.couponsApplied.Describe(ch)
	c.cartMutations.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.ordersPlaced.Collect(ch)
	c.couponsApplied.Collect(ch)
	c.cartMutations.Collect(ch)
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func (c *Collector) OrderPlaced(err error) {
	c.ordersPlaced.WithLabelValues(outcome(err)).Inc()
}

func (c *Collector) CouponApplied(err error) {
	c.couponsApplied.WithLabelValues(outcome(err)).Inc()
}

func (c *Collector) CartMutated(operation string) {
	c.cartMutations.WithLabelValues(operation).Inc()
}

var (
	once      sync.Once
	collector *Collector
)

// Default is the collector registered on the default prometheus registry.
func Default() *Collector {
	once.Do(func() {
		collector = NewCollector()
		prometheus.MustRegister(collector)
	})
	return collector
}

func Handler() http.Handler {
	Default()
	return promhttp.Handler()
}
