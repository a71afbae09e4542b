/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Seednode/quizshow/quiz"
)

type metrics struct {
	games       prometheus.Counter
	awards      *prometheus.CounterVec
	cues        *prometheus.CounterVec
	loads       *prometheus.CounterVec
	connections prometheus.Gauge
	dropped     prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		games: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizshow_games_created_total",
			Help: "Total number of games started",
		}),
		awards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizshow_awards_total",
			Help: "Total number of tiles awarded, by team",
		}, []string{"team"}),
		cues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizshow_sound_cues_total",
			Help: "Total number of hotkey sounds triggered, by sound",
		}, []string{"sound"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizshow_quiz_loads_total",
			Help: "Total number of quiz document loads, by result",
		}, []string{"result"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quizshow_websocket_connections",
			Help: "Number of open websocket connections",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizshow_messages_dropped_total",
			Help: "Total number of client messages dropped by the rate limiter",
		}),
	}

	reg.MustRegister(m.games, m.awards, m.cues, m.loads, m.connections, m.dropped)

	return m
}

func (m *metrics) observeLoad(result quiz.LoadResult) {
	if result.OK() {
		m.loads.WithLabelValues("success").Inc()
		return
	}
	m.loads.WithLabelValues("failure").Inc()
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func registerMetrics(cfg *Config, reg *prometheus.Registry, mux *httprouter.Router) {
	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
