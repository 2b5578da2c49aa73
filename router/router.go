// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/handlers"
	"github.com/danielhkuo/votedesk/metrics"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/store"
)

// NewRouter wires the store, the election manager and the handlers. reg
// receives the desk metrics; a nil reg gets a private registry.
func NewRouter(db *sql.DB, cfg cliparse.Config, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	st := store.New(db)
	opts := []election.Option{election.WithLogger(slog.Default())}
	recorder, err := metrics.New(reg)
	if err != nil {
		slog.Warn("metrics disabled", "error", err)
	} else {
		opts = append(opts, election.WithRecorder(recorder))
	}
	manager := election.NewManager(st, auth.NewVerifier(st), opts...)

	// Initialize handlers
	orgHandler := handlers.NewOrgHandler(st)
	electionHandler := handlers.NewElectionHandler(manager)
	resultsHandler := handlers.NewResultsHandler(manager)
	boothHandler := handlers.NewBoothHandler(manager.Desk())

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Registries
	mux.HandleFunc("POST /orgs", middleware.WithLogging(orgHandler.CreateOrganization))
	mux.HandleFunc("POST /orgs/{org}/voters", middleware.WithLogging(orgHandler.CreateVoter))
	mux.HandleFunc("GET /orgs/{org}/voters", middleware.WithLogging(orgHandler.ListVoters))
	mux.HandleFunc("POST /orgs/{org}/candidates", middleware.WithLogging(orgHandler.CreateCandidate))
	mux.HandleFunc("GET /orgs/{org}/candidates", middleware.WithLogging(orgHandler.ListCandidates))
	mux.HandleFunc("POST /orgs/{org}/elections", middleware.WithLogging(orgHandler.CreateElection))
	mux.HandleFunc("GET /orgs/{org}/elections", middleware.WithLogging(orgHandler.ListElections))

	// Election lifecycle
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("POST /elections/{id}/start", middleware.WithLogging(electionHandler.StartElection))
	mux.HandleFunc("POST /elections/{id}/pause", middleware.WithLogging(electionHandler.PauseElection))
	mux.HandleFunc("POST /elections/{id}/resume", middleware.WithLogging(electionHandler.ResumeElection))
	mux.HandleFunc("POST /elections/{id}/end", middleware.WithLogging(electionHandler.EndElection))
	mux.HandleFunc("POST /elections/{id}/reconduct", middleware.WithLogging(electionHandler.ReconductElection))
	mux.HandleFunc("DELETE /elections/{id}/results", middleware.WithLogging(electionHandler.ClearResults))

	// Results (sealed until completed)
	mux.HandleFunc("GET /elections/{id}/sessions", middleware.WithLogging(resultsHandler.GetSessions))
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Voting booth
	mux.HandleFunc("POST /booth/open", middleware.WithLogging(boothHandler.OpenBooth))
	mux.HandleFunc("GET /booth", middleware.WithLogging(boothHandler.GetBooth))
	mux.HandleFunc("POST /booth/voters", middleware.WithLogging(boothHandler.BeginVoter))
	mux.HandleFunc("POST /booth/select", middleware.WithLogging(boothHandler.SelectCandidate))
	mux.HandleFunc("POST /booth/advance", middleware.WithLogging(boothHandler.Advance))
	mux.HandleFunc("POST /booth/back", middleware.WithLogging(boothHandler.GoBack))
	mux.HandleFunc("POST /booth/reset", middleware.WithLogging(boothHandler.Reset))
	mux.HandleFunc("POST /booth/next-voter", middleware.WithLogging(boothHandler.NextVoter))
	mux.HandleFunc("POST /booth/exit", middleware.WithLogging(boothHandler.ExitBooth))

	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("votedesk API v1"))
	})

	return mux
}
