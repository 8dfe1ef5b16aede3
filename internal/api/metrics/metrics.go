// Package metrics defines and registers all custom Prometheus metrics for the
// resource directory API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "directory"

// LoginsTotal counts successful logins.
var LoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins.",
	},
)

// RegistrationsTotal counts account creations.
// Label:
//   - mode: "bootstrap" (first user on an empty store) or "owner"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by registration mode.",
	},
	[]string{"mode"},
)

// AuthFailuresTotal counts authentication failures on protected routes.
// The reason label is diagnostics only; clients always see the same
// generic unauthenticated response.
// Label:
//   - reason: "missing_credential", "expired", "malformed", "signature",
//     "subject_not_found", "load_failed"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// EntityLoadsTotal counts path-id entity loads performed by the loader
// middleware.
// Labels:
//   - kind: entity kind ("resource", "location", "category", "provider", "user")
//   - result: "hit" or "miss"
var EntityLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_loads_total",
		Help:      "Total number of entity loads by the loader middleware, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ListingCacheTotal counts listing cache lookups.
// Label:
//   - result: "hit" or "miss"
var ListingCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_cache_total",
		Help:      "Total number of listing cache lookups, by result.",
	},
	[]string{"result"},
)
