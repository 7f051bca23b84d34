package cmd

import (
	"context"
	"fmt"
	"time"

	"hushhush/api"
	"hushhush/auth"
	"hushhush/bot"
	"hushhush/config"
	"hushhush/database"
	"hushhush/events"
	"hushhush/infrastructure"
	"hushhush/observability"
	"hushhush/repository"
	"hushhush/repository/inmemory"
	"hushhush/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

Examples:
  hushhush serve
  STORAGE_DRIVER=memory hushhush serve --seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), config.Get(), seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "load the sample data on start (memory storage only)")

	return cmd
}

// storage is an opened storage driver
type storage struct {
	factory service.UnitOfWorkFactory
	db      *database.DB
	store   *inmemory.Store
}

func (s *storage) Close() {
	if s.db != nil {
		log.Info("Closing database connection")
		s.db.Close()
	}
}

// Reset deletes every record
func (s *storage) Reset(ctx context.Context) error {
	if s.db != nil {
		return s.db.ResetData(ctx)
	}
	s.store.Reset()
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, bus *events.Bus) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		log.Warn("Using in-memory storage, data is lost on exit")
		store := inmemory.NewStore()
		return &storage{factory: inmemory.NewUnitOfWorkFactory(store, bus), store: store}, nil
	default:
		log.Info("Connecting to database")
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established")
		return &storage{factory: repository.NewUnitOfWorkFactory(db, bus), db: db}, nil
	}
}

func newServices(factory service.UnitOfWorkFactory, hasher service.PasswordHasher) api.Services {
	return api.Services{
		Identity:  service.NewIdentityService(factory, hasher),
		Vaults:    service.NewVaultService(factory),
		Pledges:   service.NewPledgeService(factory, observability.GetMetrics()),
		Gate:      service.NewAccessGate(factory),
		Comments:  service.NewCommentService(factory),
		Stats:     service.NewStatsService(factory),
		Dashboard: service.NewDashboardService(factory),
	}
}

// Run initializes and starts the API
func Run(ctx context.Context, cfg *config.Config, seed bool) error {
	log.WithField("environment", cfg.Environment).Info("Starting HushHush API")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Metrics unavailable, continuing without them")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Failed to shut down metrics")
		}
	}()

	eventBus := events.NewBus()

	store, err := openStorage(ctx, cfg, eventBus)
	if err != nil {
		return err
	}
	defer store.Close()

	services := newServices(store.factory, auth.NewBcryptHasher(cfg.BcryptCost))

	if seed {
		if store.db != nil {
			return fmt.Errorf("--seed only works with memory storage, use the seed command for postgres")
		}
		if _, err := Seed(ctx, services); err != nil {
			return fmt.Errorf("failed to seed memory storage: %w", err)
		}
	}

	if cfg.NATSEnabled {
		natsClient, err := connectNATS(ctx, cfg)
		if err != nil {
			log.WithError(err).Warn("NATS unavailable, events stay in process")
		} else {
			defer natsClient.Close()
			infrastructure.NewEventForwarder(natsClient).Register(eventBus)
		}
	}

	if cfg.DiscordToken != "" {
		discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken, ChannelID: cfg.DiscordChannelID})
		if err != nil {
			log.WithError(err).Warn("Discord announcer unavailable")
		} else {
			defer discordBot.Close()
			discordBot.Subscribe(eventBus)
		}
	}

	limiter := newRateLimiter(cfg)
	defer limiter.Close()

	server := api.NewServer(services, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry()), api.Options{
		Limiter:           limiter,
		AuthRatePerMinute: cfg.RateLimitAuthPerMinute,
	})

	if err := server.Run(ctx, cfg.HTTPAddr); err != nil {
		return err
	}
	log.Info("Shutdown completed")
	return nil
}

func connectNATS(ctx context.Context, cfg *config.Config) (*infrastructure.NATSClient, error) {
	client := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	if err := client.EnsureStream(infrastructure.EventStreamName, infrastructure.AllSubjects()); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func newRateLimiter(cfg *config.Config) api.RateLimiter {
	if cfg.RedisAddr == "" {
		return api.NewMemoryRateLimiter()
	}
	limiter, err := api.NewRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, rate limiting in memory")
		return api.NewMemoryRateLimiter()
	}
	log.WithField("addr", cfg.RedisAddr).Info("Rate limiting through Redis")
	return limiter
}
