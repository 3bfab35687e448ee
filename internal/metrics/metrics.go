// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Checkins counts check-in attempts by result kind and assigned status.
	Checkins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrattend_checkins_total",
		Help: "Check-in attempts by result and status.",
	}, []string{"result", "status"})

	// Registrations counts registration attempts by outcome.
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrattend_registrations_total",
		Help: "Student registrations by outcome.",
	}, []string{"outcome"})
)
