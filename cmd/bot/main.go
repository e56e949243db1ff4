// Package main is the entry point for the spot-the-spy Telegram bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"spot-the-spy-bot/internal/apiclient"
	"spot-the-spy-bot/internal/bot"
	"spot-the-spy-bot/internal/broadcast"
	"spot-the-spy-bot/internal/config"
	"spot-the-spy-bot/internal/pkg/lock"
	"spot-the-spy-bot/internal/scene"
	"spot-the-spy-bot/internal/session"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store backed by redis
	redisKV, err := session.NewRedisKV(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer redisKV.Close()

	store := session.NewStore(redisKV)

	// Game service client
	client := apiclient.New(apiclient.Config{
		BaseURL:      cfg.API.BaseURL,
		Key:          cfg.API.Key,
		RetryCycles:  cfg.API.RetryCycles,
		RetryTimeout: cfg.API.RetryTimeout,
	})
	games := apiclient.NewGames(client)
	singleGames := apiclient.NewSingleGames(client)
	users := apiclient.NewUsers(client)

	// Telegram connection; handlers are registered after the engine exists
	conn, err := bot.NewConn(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	botUsername := cfg.Bot.Username
	if botUsername == "" {
		botUsername = conn.Me.Username
	}

	// Broadcast engine over the shared connection
	registry := session.NewRegistry()
	qr := broadcast.NewQRSource(botUsername)
	engine := broadcast.NewEngine(
		bot.NewSender(conn),
		registry,
		games,
		qr,
		botUsername,
		cfg.Game.PollInterval,
	)
	defer engine.Close()

	// Scene manager
	manager := scene.NewManager(scene.Deps{
		Config:   cfg,
		Store:    store,
		Registry: registry,
		Engine:   engine,
		Games:    games,
		Single:   singleGames,
		Users:    users,
		Locks:    lock.NewUserLock(),
	})

	telegramBot := bot.New(&bot.Dependencies{
		Config:  cfg,
		Bot:     conn,
		Manager: manager,
		Store:   store,
		Users:   users,
	})

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}
