// Package metrics holds the Prometheus collectors for the report pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vistoria_reports_total",
			Help: "Total number of report requests by outcome",
		},
		[]string{"outcome"},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vistoria_report_duration_seconds",
			Help:    "Duration of report generation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"outcome"},
	)

	DescriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vistoria_descriptions_total",
			Help: "Total number of image descriptions requested by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	DescriptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "vistoria_description_duration_seconds",
			Help: "Duration of a single image description call in seconds",
		},
		[]string{"provider"},
	)

	UnmatchedImagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vistoria_unmatched_images_total",
			Help: "Images whose room key matched no declared room",
		},
	)
)

const (
	OutcomeSuccess       = "success"
	OutcomeClientError   = "client_error"
	OutcomeError         = "error"
	OutcomeAPIError      = "api_error"
	OutcomeMalformed     = "malformed_response"
	OutcomeRequestFailed = "request_failed"
)
