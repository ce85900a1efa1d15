package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mu     sync.Mutex
	gauges = map[string]prometheus.Gauge{}

	// OrdersPlaced counts orders created since process start.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bistrokit",
		Name:      "orders_placed_total",
		Help:      "Number of orders placed",
	})

	// OrdersCompleted counts orders that reached the terminal status.
	OrdersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bistrokit",
		Name:      "orders_completed_total",
		Help:      "Number of orders completed",
	})

	// WaiterCalls counts waiter-call and bill-request signals raised.
	WaiterCalls = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bistrokit",
		Name:      "waiter_calls_total",
		Help:      "Number of waiter calls and bill requests",
	})
)

// SetGauge sets a named gauge, registering it on first use. Used by the
// system monitor jobs for cpu/memory readings.
func SetGauge(name string, value int64) {
	mu.Lock()
	g, ok := gauges[name]
	if !ok {
		g = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "bistrokit",
			Name:      name,
			Help:      "runtime gauge " + name,
		})
		gauges[name] = g
	}
	mu.Unlock()
	g.Set(float64(value))
}
