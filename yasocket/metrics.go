package yasocket

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

const (
	metricsNamespace = "yasocket"
	metricsURLLabel  = "url"
)

// socketMetrics exposes per-URL counters. A nil *socketMetrics is valid and
// records nothing.
type socketMetrics struct {
	retries   prometheus.Counter
	sent      prometheus.Counter
	buffered  prometheus.Counter
	replayed  prometheus.Counter
	dropped   prometheus.Counter
	connected prometheus.Gauge
}

func newSocketMetrics(reg prometheus.Registerer, url string, log yalogger.Logger) *socketMetrics {
	if reg == nil {
		return nil
	}

	counter := func(name, help string) prometheus.Counter {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		}, []string{metricsURLLabel})

		return registerCollector(reg, vec, log).WithLabelValues(url)
	}

	connected := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "connected",
		Help:      "1 while the transport is open, 0 otherwise",
	}, []string{metricsURLLabel})

	return &socketMetrics{
		retries:   counter("retries_total", "Reconnect attempts"),
		sent:      counter("messages_sent_total", "Messages written straight to an open transport"),
		buffered:  counter("messages_buffered_total", "Messages stored while the transport was unavailable"),
		replayed:  counter("messages_replayed_total", "Buffered messages replayed after a reconnect"),
		dropped:   counter("messages_dropped_total", "Messages lost because no buffer was configured or it overflowed"),
		connected: registerCollector(reg, connected, log).WithLabelValues(url),
	}
}

// registerCollector registers c, or returns the collector already registered
// under the same descriptor so several sockets can share one registry.
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C, log yalogger.Logger) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}

	log.Warnf("Failed to register socket metrics, continuing unregistered: %v", err)

	return c
}

func (m *socketMetrics) retry() {
	if m != nil {
		m.retries.Inc()
	}
}

func (m *socketMetrics) send() {
	if m != nil {
		m.sent.Inc()
	}
}

func (m *socketMetrics) buffer() {
	if m != nil {
		m.buffered.Inc()
	}
}

func (m *socketMetrics) replay(n int) {
	if m != nil {
		m.replayed.Add(float64(n))
	}
}

func (m *socketMetrics) drop() {
	if m != nil {
		m.dropped.Inc()
	}
}

func (m *socketMetrics) setConnected(open bool) {
	if m == nil {
		return
	}

	if open {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}
