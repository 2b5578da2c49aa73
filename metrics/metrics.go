// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes desk activity as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
)

// Metrics implements election.Recorder.
type Metrics struct {
	transitions *prometheus.CounterVec
	ballots     *prometheus.CounterVec
	rejections  *prometheus.CounterVec
}

var _ election.Recorder = (*Metrics)(nil)

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "votedesk",
			Name:      "election_transitions_total",
			Help:      "Election lifecycle transitions by resulting status.",
		}, []string{"status"}),
		ballots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "votedesk",
			Name:      "ballots_cast_total",
			Help:      "Ballots written by election type.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "votedesk",
			Name:      "eligibility_rejections_total",
			Help:      "Voters turned away at the booth by reason.",
		}, []string{"reason"}),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.ballots, m.rejections} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Transition(to models.Status) {
	m.transitions.WithLabelValues(string(to)).Inc()
}

func (m *Metrics) BallotCast(t models.ElectionType) {
	m.ballots.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) Rejected(reason election.RejectReason) {
	m.rejections.WithLabelValues(string(reason)).Inc()
}
