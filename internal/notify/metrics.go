package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "emails_sent_total",
			Help:      "Total number of outbound emails by kind and result",
		},
		[]string{"kind", "result"},
	)

	sendRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "email_retries_total",
			Help:      "Total number of email send retry attempts",
		},
	)
)
