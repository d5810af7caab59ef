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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ryjin111/foxAI/pkg/access"
	"github.com/ryjin111/foxAI/pkg/agent"
	"github.com/ryjin111/foxAI/pkg/config"
	"github.com/ryjin111/foxAI/pkg/llm"
	"github.com/ryjin111/foxAI/pkg/market"
	"github.com/ryjin111/foxAI/pkg/personality"
	"github.com/ryjin111/foxAI/pkg/scheduler"
	"github.com/ryjin111/foxAI/pkg/server"
	"github.com/ryjin111/foxAI/pkg/social"
	"github.com/ryjin111/foxAI/pkg/store"
)

// Filled at build time with the -X linker flag.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	log.Logger = logger

	logger.Info().
		Str("tag", Tag).
		Str("commit", Commit).
		Str("build_time", BuildTime).
		Msg("Starting Foxy agent")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	if cfg.DBPath != "" {
		sq, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open database")
		}
		st = sq
	} else {
		st = store.NewMemory()
	}
	if err := st.Initialize(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer st.Close()

	persona, err := personality.Default()
	if cfg.PersonaPath != "" {
		persona, err = personality.Load(cfg.PersonaPath)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load persona")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	llmClient := llm.NewClient(llm.Options{
		APIKey:      cfg.DeepSeekAPIKey,
		BaseURL:     cfg.DeepSeekBaseURL,
		Model:       cfg.DeepSeekModel,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}, persona, rng, logger)
	if !llmClient.Configured() {
		logger.Warn().Msg("DEEPSEEK_API_KEY not set, chat endpoints will answer with canned lines")
	}

	var socialClient social.Client
	twitterLive := cfg.TwitterConfigured()
	if twitterLive {
		socialClient = social.NewHTTPClient("", cfg.TwitterBearerToken, logger)
		logger.Info().Msg("Twitter client in live mode")
	} else {
		socialClient = social.NewMockClient(logger)
		logger.Info().Msg("Twitter credentials missing, using mock client")
	}

	hyperliquid := market.NewHyperliquidClient(cfg.HyperliquidAPIURL, cfg.FoxContract, logger)
	coingecko := market.NewCoinGeckoClient(cfg.CoinGeckoMCPURL, logger)
	dripTrade := market.NewDripTrade(rng)

	accessMgr := access.NewManager(nil)

	orchestrator := agent.New(agent.Deps{
		LLM:         llmClient,
		Social:      socialClient,
		Hyperliquid: hyperliquid,
		CoinGecko:   coingecko,
		Access:      accessMgr,
		Store:       st,
		Persona:     persona,
		Log:         logger,
		ReplyDelay:  cfg.ReplyDelay,
	})

	sched, err := scheduler.New(scheduler.Deps{
		Social:    socialClient,
		Store:     st,
		Access:    accessMgr,
		Persona:   persona,
		DripTrade: dripTrade,
		Market:    hyperliquid,
		Rng:       rng,
		Log:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build scheduler")
	}
	go sched.Start(ctx)

	srv := server.New(server.Deps{
		Agent:       orchestrator,
		LLM:         llmClient,
		Scheduler:   sched,
		Access:      accessMgr,
		Store:       st,
		Persona:     persona,
		Rng:         rng,
		CronSecret:  cfg.CronSecret,
		TwitterLive: twitterLive,
		Log:         logger,
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", httpSrv.Addr).Msg("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP shutdown failed")
	}
}
