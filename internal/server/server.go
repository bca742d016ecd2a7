// Package server is the local HTTP surface the presentation layer talks
// to. Reads go through the query cache; mutations go through the optimistic
// coordinator; /ws streams cache change notices.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/upwardia/upwardia/internal/api"
	"github.com/upwardia/upwardia/internal/cache"
	"github.com/upwardia/upwardia/internal/localstore"
	"github.com/upwardia/upwardia/internal/middleware"
	"github.com/upwardia/upwardia/internal/optimistic"
	"github.com/upwardia/upwardia/internal/session"
	ws "github.com/upwardia/upwardia/internal/websocket"
)

type Server struct {
	client      *api.Client
	store       localstore.Store
	cache       *cache.Cache
	coordinator *optimistic.Coordinator
	session     *session.Session
	hub         *ws.Hub
	logger      *slog.Logger
}

func New(client *api.Client, store localstore.Store, c *cache.Cache, coordinator *optimistic.Coordinator, sess *session.Session, hub *ws.Hub, logger *slog.Logger) *Server {
	return &Server{
		client:      client,
		store:       store,
		cache:       c,
		coordinator: coordinator,
		session:     sess,
		hub:         hub,
		logger:      logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.Login)
	mux.HandleFunc("POST /api/signup", s.Signup)
	mux.HandleFunc("POST /api/logout", s.Logout)

	mux.HandleFunc("GET /api/user", s.GetUser)
	mux.HandleFunc("GET /api/missions", s.GetMissions)
	mux.HandleFunc("GET /api/transactions", s.GetTransactions)
	mux.HandleFunc("GET /api/rewards", s.GetRewards)
	mux.HandleFunc("GET /api/milestones", s.GetMilestones)

	mux.HandleFunc("POST /api/missions/{id}/complete", s.CompleteMission)
	mux.HandleFunc("POST /api/missions/{id}/uncomplete", s.UncompleteMission)
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.RedeemReward)

	mux.HandleFunc("POST /api/backup/export", s.ExportBackup)
	mux.HandleFunc("POST /api/backup/import", s.ImportBackup)

	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger)(mux)
}

// BridgeFeed forwards cache change notifications onto the websocket hub
// until ctx is canceled. Attached views re-read the named collection when a
// notice arrives.
func (s *Server) BridgeFeed(ctx context.Context, keys ...cache.Key) {
	for _, key := range keys {
		updates, cancel := s.cache.Subscribe(key)
		go func(key cache.Key) {
			defer cancel()
			for {
				select {
				case _, ok := <-updates:
					if !ok {
						return
					}
					s.hub.Broadcast(ws.CacheUpdate(string(key)))
				case <-ctx.Done():
					return
				}
			}
		}(key)
	}
}

// FeedNotifier builds the failure notifier wired to the feed: one
// broadcast per rolled-back mutation, plus a log line.
func FeedNotifier(hub *ws.Hub, logger *slog.Logger) optimistic.Notifier {
	return optimistic.NotifierFunc(func(n optimistic.Notice) {
		logger.Warn("mutation rolled back", "mutation", n.Mutation, "error", n.Err)
		hub.Broadcast(ws.MutationFailed(n.Err.Error()))
	})
}
