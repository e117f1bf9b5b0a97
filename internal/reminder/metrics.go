package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var remindersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "lessonbook",
		Name:      "reminders_sent_total",
		Help:      "Lesson reminders by result.",
	},
	[]string{"result"},
)
