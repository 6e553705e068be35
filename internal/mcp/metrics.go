package mcp

import (
	"context"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts tool calls. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates tool-call collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agencyops",
			Name:      "tool_calls_total",
			Help:      "MCP tool calls by tool and outcome.",
		}, []string{"tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agencyops",
			Name:      "tool_call_duration_seconds",
			Help:      "MCP tool call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	m.registry.MustRegister(m.calls, m.duration)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Calls returns the counter for one tool and outcome ("ok", "tool_error", "error").
func (m *Metrics) Calls(tool, outcome string) prometheus.Counter {
	return m.calls.WithLabelValues(tool, outcome)
}

func (m *Metrics) middleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if m == nil || method != "tools/call" {
				return next(ctx, method, req)
			}
			call, ok := req.(*sdkmcp.CallToolRequest)
			if !ok || call.Params == nil {
				return next(ctx, method, req)
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			m.duration.WithLabelValues(call.Params.Name).Observe(time.Since(start).Seconds())

			outcome := "ok"
			if err != nil {
				outcome = "error"
			} else if res, ok := result.(*sdkmcp.CallToolResult); ok && res.IsError {
				outcome = "tool_error"
			}
			m.calls.WithLabelValues(call.Params.Name, outcome).Inc()
			return result, err
		}
	}
}
