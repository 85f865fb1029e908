package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler routes /metrics to the default prometheus registry.
func MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// ServeMetrics exposes the prometheus registry on addr until the listener fails.
func ServeMetrics(addr string) error {
	return errors.WithStack(http.ListenAndServe(addr, MetricsHandler()))
}
