package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gridironlabs/mockdraft/go/internal/dbconfig"
	"github.com/gridironlabs/mockdraft/go/internal/draft"
	"github.com/gridironlabs/mockdraft/go/internal/draft/gateway"
	"github.com/gridironlabs/mockdraft/go/internal/draft/orchestrator"
	"github.com/gridironlabs/mockdraft/go/internal/draft/outbox"
	"github.com/gridironlabs/mockdraft/go/internal/draft/tradestore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	setupLogging()

	cfg, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	dbCfg := dbconfig.FromEnv()
	db, err := setupDatabase(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := draft.NewRepository(db)
	outboxApp := outbox.NewApp(outbox.NewRepository(db))
	clock := clockwork.NewRealClock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	app := draft.NewApp(db, repo, outboxApp, clock, cfg.TeamNeeds(), cfg.EvalProfile(), rng)

	// Publisher first: it creates the JetStream stream the consumers attach to.
	pubCfg := outbox.DefaultJetStreamConfig()
	pubCfg.URL = cfg.NATS.URL
	pubCfg.StreamName = cfg.NATS.Stream
	pubCfg.SubjectPrefix = cfg.NATS.SubjectPrefix
	publisher, err := outbox.NewJetStreamPublisher(pubCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}
	defer publisher.Close()

	listenCfg := outbox.DefaultListenerConfig()
	listenCfg.DatabaseURL = dbCfg.DSN()
	listener, err := outbox.NewListener(outbox.NewRepository(db), publisher, listenCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create outbox listener")
	}
	go func() {
		if err := listener.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("outbox listener stopped")
		}
	}()

	orch := orchestrator.NewOrchestrator(app, clock, int32(getEnvAsInt("SCHEDULER_BATCH_SIZE", 25)))
	if err := orch.Connect(ctx, cfg.NATS.URL, cfg.NATS.Stream, cfg.NATS.SubjectPrefix); err != nil {
		log.Fatal().Err(err).Msg("failed to connect orchestrator")
	}
	defer orch.Close()
	go func() {
		if err := orch.RunScheduler(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("scheduler stopped")
		}
	}()
	go func() {
		if err := orch.RunConsumer(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event consumer stopped")
		}
	}()

	manager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go manager.Start(ctx)

	gwCfg := gateway.DefaultJetStreamConsumerConfig()
	gwCfg.URL = cfg.NATS.URL
	gwCfg.StreamName = cfg.NATS.Stream
	gwCfg.SubjectFilter = cfg.NATS.SubjectPrefix + ".>"
	gwConsumer, err := gateway.NewEventConsumer(manager, gwCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gateway consumer")
	}
	defer gwConsumer.Stop()
	go func() {
		if err := gwConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("gateway consumer stopped")
		}
	}()

	proposals := tradestore.New(clock, cfg.ProposalTTL(), func(ctx context.Context, tradeID uuid.UUID) {
		if _, err := app.ExpireTrade(ctx, tradeID); err != nil {
			log.Warn().Err(err).Str("trade_id", tradeID.String()).Msg("failed to expire trade proposal")
		}
	})

	services := &Services{
		App:        app,
		Proposals:  proposals,
		Gateway:    gateway.NewHandler(manager, app),
		DraftOrder: cfg.DraftOrder(),
		Tuning:     cfg.DefaultTuning(),
	}

	server := setupServer(cfg, services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	cancel()
	if err := listener.Stop(); err != nil {
		log.Error().Err(err).Msg("outbox listener shutdown failed")
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if getEnv("LOG_PRETTY", "") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
