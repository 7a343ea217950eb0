package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsCountsByRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.ObserveRequest("GET", "/api/v1/cart", 200, 0.015)
	metrics.ObserveRequest("GET", "/api/v1/cart", 200, 0.022)
	metrics.ObserveRequest("POST", "/api/v1/quotes", 422, 0.005)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "foamwash_http_requests_total", "route", "/api/v1/cart"); err != nil {
		t.Fatalf("fetch cart counter: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 cart requests, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "foamwash_http_requests_total", "status", "422"); err != nil {
		t.Fatalf("fetch 422 counter: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one 422 request, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "foamwash_http_request_duration_seconds", "route", "/api/v1/cart"); err != nil {
		t.Fatalf("fetch latency: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected latency sum > 0, got %f", got)
	}
}

func TestHTTPMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.ObserveRequest("GET", "/", 200, 0.001)

	unregistered := NewHTTPMetrics(nil)
	unregistered.ObserveRequest("GET", "/", 200, 0.001)
}
