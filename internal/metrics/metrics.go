// Package metrics records per-endpoint request counts and latencies with
// Prometheus collectors.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	requestsTotalName   = "apca_api_requests_total"
	requestDurationName = "apca_api_request_duration_seconds"
)

// Recorder implements alpaca.Observer on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder registers the request collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: requestsTotalName,
				Help: "Total number of trading API requests made (by endpoint, method and status).",
			},
			[]string{"endpoint", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    requestDurationName,
				Help:    "Duration of trading API requests in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
			},
			[]string{"endpoint", "method"},
		),
	}
	r.registry.MustRegister(r.requests, r.duration)
	return r
}

// Registry exposes the underlying registry, e.g. for a push gateway.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRequest records one request. Status 0 means no response.
func (r *Recorder) ObserveRequest(endpoint, method string, status int, elapsed time.Duration) {
	statusLabel := strconv.Itoa(status)
	if status == 0 {
		statusLabel = "error"
	}
	r.requests.WithLabelValues(endpoint, method, statusLabel).Inc()
	r.duration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// EndpointStats summarizes one endpoint/method pair.
type EndpointStats struct {
	Endpoint string
	Method   string
	Requests uint64
	Errors   uint64
	Total    time.Duration
}

// Mean returns the average latency.
func (s EndpointStats) Mean() time.Duration {
	if s.Requests == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Requests)
}

// Stats gathers the registry into per-endpoint summaries sorted by endpoint.
func (r *Recorder) Stats() ([]EndpointStats, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	byKey := make(map[string]*EndpointStats)
	entry := func(m *dto.Metric) *EndpointStats {
		labels := labelMap(m)
		key := labels["endpoint"] + " " + labels["method"]
		s, ok := byKey[key]
		if !ok {
			s = &EndpointStats{Endpoint: labels["endpoint"], Method: labels["method"]}
			byKey[key] = s
		}
		return s
	}

	for _, mf := range families {
		switch mf.GetName() {
		case requestsTotalName:
			for _, m := range mf.GetMetric() {
				s := entry(m)
				n := uint64(m.GetCounter().GetValue())
				status := labelMap(m)["status"]
				if status == "error" || (len(status) == 3 && status[0] != '2') {
					s.Errors += n
				}
			}
		case requestDurationName:
			for _, m := range mf.GetMetric() {
				s := entry(m)
				h := m.GetHistogram()
				s.Requests += h.GetSampleCount()
				s.Total += time.Duration(h.GetSampleSum() * float64(time.Second))
			}
		}
	}

	out := make([]EndpointStats, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Endpoint != out[j].Endpoint {
			return out[i].Endpoint < out[j].Endpoint
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}

// WriteSummary prints a table of Stats to w.
func (r *Recorder) WriteSummary(w io.Writer) error {
	stats, err := r.Stats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "No API requests recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDPOINT\tMETHOD\tREQUESTS\tERRORS\tMEAN")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.Endpoint, s.Method, s.Requests, s.Errors, s.Mean().Round(time.Millisecond))
	}
	return tw.Flush()
}

func labelMap(m *dto.Metric) map[string]string {
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}
