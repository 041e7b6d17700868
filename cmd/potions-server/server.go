package main

import (
	"net/http"
	"sync/atomic"

	"github.com/daniacca/potions/internal/logging"
	"github.com/daniacca/potions/internal/potions"
	"github.com/daniacca/potions/internal/potions/notifiers"
)

const (
	websocketNotifierID = "websocket"
	webhookNotifierID   = "webhook"
)

// Server represents the HTTP server for the potions workshop
type Server struct {
	workshop    *potions.Workshop
	notifierMgr *potions.NotificationManager
	stream      *notifiers.WebSocketNotifier
	logger      *logging.Logger
	seed        int64
	runs        atomic.Int64
}

// NewServer creates a server around catalogue. Every combination in the
// workshop is streamed to WebSocket clients, and to webhookURL when set.
func NewServer(catalogue *potions.Catalogue, cfg ServerConfig, logger *logging.Logger) (*Server, error) {
	mgr := potions.NewNotificationManagerWithLogger(logger)
	stream := notifiers.NewWebSocketNotifier(websocketNotifierID)
	if err := mgr.RegisterNotifier(stream); err != nil {
		return nil, err
	}
	ids := []string{websocketNotifierID}

	if cfg.WebhookURL != "" {
		hook := notifiers.NewWebhookNotifier(webhookNotifierID, cfg.WebhookURL)
		hook.SetMinPotionValue(cfg.WebhookMinValue)
		if err := mgr.RegisterNotifier(hook); err != nil {
			return nil, err
		}
		ids = append(ids, webhookNotifierID)
	}

	workshop := potions.NewWorkshopWithLogger(catalogue, potions.NewRand(cfg.Seed+1), logger)
	workshop.SetNotificationManager(mgr, ids...)

	return &Server{
		workshop:    workshop,
		notifierMgr: mgr,
		stream:      stream,
		logger:      logger,
		seed:        cfg.Seed,
	}, nil
}

// Routes returns the HTTP handler for the API
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/effects", s.handleEffects)
	mux.HandleFunc("/alchemists", s.handleListAlchemists)
	mux.HandleFunc("/alchemists/", s.handleAlchemist)
	mux.Handle("/ws", s.stream)
	return mux
}

// Close stops the notification pipeline
func (s *Server) Close() error {
	return s.notifierMgr.Close()
}
