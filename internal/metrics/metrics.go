package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuizAttemptsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluentora_quiz_attempts_started_total",
		Help: "Number of quiz attempts started.",
	})

	QuizAttemptsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluentora_quiz_attempts_submitted_total",
		Help: "Number of quiz attempts submitted, by outcome.",
	}, []string{"outcome"})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluentora_messages_sent_total",
		Help: "Number of messages sent.",
	})

	MessagesMarkedRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluentora_messages_marked_read_total",
		Help: "Number of messages flipped to read.",
	})
)
