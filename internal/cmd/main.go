package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gridironlabs/mockdraft/internal/board"
	"github.com/gridironlabs/mockdraft/internal/candidate"
	"github.com/gridironlabs/mockdraft/internal/cpupick"
	"github.com/gridironlabs/mockdraft/internal/draft"
	"github.com/gridironlabs/mockdraft/internal/draft/outbox"
	"github.com/gridironlabs/mockdraft/internal/gateway"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/gridironlabs/mockdraft/internal/trade"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := setupDatabase(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer pool.Close()
	log.Info().Msg("connected to database")

	nc, err := nats.Connect(config.NATS.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second))
	if err != nil {
		log.Fatal().Err(err).Str("url", config.NATS.URL).Msg("failed to connect to NATS")
	}
	defer nc.Drain()
	log.Info().Str("url", config.NATS.URL).Msg("connected to NATS")

	clock := clockwork.NewRealClock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	draftRepo := draft.NewPgxRepository(pool)
	candidateRepo := candidate.NewPgxRepository(pool)
	outboxRepo := outbox.NewPgxRepository(pool)

	boardCfg := boardConfig(config)
	cpuOpts := cpupick.Options{
		Randomness:      config.CPU.Randomness,
		NeedsWeight:     config.CPU.NeedsWeight,
		PositionalValue: positionalValue(config.CPU.PositionalValue),
	}

	draftApp := draft.NewApp(draftRepo, candidateRepo, outboxRepo, clock, rng, boardCfg)
	tradeApp := trade.NewApp(trade.NewPgxRepository(pool), draftRepo, outboxRepo, clock)
	strat := draft.NewSelectorStrategy(draftApp, cpuOpts)
	orchestrator := draft.NewOrchestrator(draftRepo, strat, config.Orchestrator.BatchSize, clock)

	gw := gateway.New(nc, config.NATS.SubjectPrefix, draftApp, tradeApp, candidateRepo, cpuOpts, boardCfg)
	if err := gw.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start gateway")
	}
	defer gw.Stop()

	publisher := outbox.NewNATSPublisher(nc, config.NATS.SubjectPrefix)
	outboxCfg := outbox.DefaultConfig()
	outboxCfg.PollInterval = config.Outbox.PollInterval
	outboxCfg.BatchSize = config.Outbox.BatchSize
	relay := outbox.NewWorker(pool, outboxRepo, publisher, outboxCfg)

	if err := relay.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start outbox worker")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- orchestrator.RunScheduler(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("scheduler exited with error")
		}
	}

	if err := relay.Stop(); err != nil {
		log.Error().Err(err).Msg("failed to stop outbox worker")
	}
	log.Info().Msg("shutdown complete")
}

// boardConfig builds the custom-board config, or nil when no weights are set.
func boardConfig(config *Config) *board.Config {
	w := config.Board
	if w.Production+w.Athleticism+w.Conference+w.Consensus <= 0 {
		return nil
	}
	return &board.Config{
		Weights: board.Weights{
			Production:  w.Production,
			Athleticism: w.Athleticism,
			Conference:  w.Conference,
			Consensus:   w.Consensus,
		},
	}
}

func positionalValue(raw map[string]float64) map[models.Position]float64 {
	out := make(map[models.Position]float64, len(raw))
	for pos, mult := range raw {
		out[models.Position(pos)] = mult
	}
	return out
}
