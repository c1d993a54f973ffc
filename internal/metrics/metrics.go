package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "streamline"

// Handler returns an http.Handler that serves Prometheus metrics from the
// default registry, which also carries the Go runtime and process collectors.
func Handler() http.Handler {
	return promhttp.Handler()
}
