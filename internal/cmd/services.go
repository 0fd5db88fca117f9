package main

import (
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mdevers/yachtroom/internal/events"
	"github.com/mdevers/yachtroom/internal/gateway"
	"github.com/mdevers/yachtroom/internal/identity"
	"github.com/mdevers/yachtroom/internal/room"
	"github.com/mdevers/yachtroom/internal/session"
)

type Services struct {
	Identities  *identity.App
	Coordinator *session.Coordinator
	Handlers    *gateway.Handlers
	Publisher   *events.Publisher
}

func setupServices(pool *pgxpool.Pool, gameCfg session.Config) *Services {
	// Database layer → Repository layer → App layer → Gateway layer
	identityRepo := identity.NewRepository(pool)
	identityApp := identity.NewApp(identityRepo)

	roomRepo := room.NewRepository(pool)

	registry := gateway.NewRegistry(gateway.DefaultConnConfig())
	dispatcher := gateway.NewDispatcher(registry)

	publisher := setupPublisher()
	var eventPublisher session.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	coordinator := session.NewCoordinator(
		gameCfg,
		roomRepo,
		identityApp,
		dispatcher,
		eventPublisher,
		clockwork.NewRealClock(),
	)

	ws := gateway.NewService(coordinator, registry, dispatcher)
	handlers := gateway.NewHandlers(coordinator, identityApp, ws)

	return &Services{
		Identities:  identityApp,
		Coordinator: coordinator,
		Handlers:    handlers,
		Publisher:   publisher,
	}
}

// setupPublisher connects to NATS when NATS_URL is set. The server runs
// fine without it; lifecycle events are simply not exported.
func setupPublisher() *events.Publisher {
	url := os.Getenv("NATS_URL")
	if url == "" {
		log.Info().Msg("NATS_URL not set, room event publishing disabled")
		return nil
	}

	cfg := events.DefaultConfig()
	cfg.URL = url
	if stream := os.Getenv("NATS_STREAM"); stream != "" {
		cfg.StreamName = stream
	}

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to NATS, room event publishing disabled")
		return nil
	}
	return publisher
}
