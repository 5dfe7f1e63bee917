package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	sandwich "github.com/WelcomerTeam/Sandwich-Gateway"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	configurationPath := flag.String("config", "sandwich.yaml", "Path of the configuration file")
	envPath := flag.String("env", ".env", "Path of an optional .env file loaded before the configuration")
	shutdownTimeout := flag.Duration("shutdown-timeout", 30*time.Second, "How long to wait for shards to close")
	flag.Parse()

	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}).With().Timestamp().Logger()

	// Environment variables referenced from the configuration can come from a .env file.
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bootstrap.Fatal().Err(err).Str("path", *envPath).Msg("Failed to load .env file")
	}

	configuration, err := sandwich.LoadConfiguration(*configurationPath)
	if err != nil {
		bootstrap.Fatal().Err(err).Str("path", *configurationPath).Msg("Failed to load configuration")
	}

	logger, err := sandwich.NewLogger(configuration.Logging, os.Stdout)
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("Failed to create logger")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var identifyProvider sandwich.IdentifyProvider

	if configuration.Identify.URL != "" {
		identifyProvider = sandwich.NewIdentifyViaURL(configuration.Identify.URL, configuration.Identify.Headers)
	} else {
		identifyProvider = sandwich.NewIdentifyViaBuckets()
	}

	var producer sandwich.Producer

	if configuration.Producer.Type != "" {
		producer, err = sandwich.NewMessagingProducer(ctx, configuration.Producer)
		if err != nil {
			logger.Fatal().Err(err).Str("type", configuration.Producer.Type).Msg("Failed to create producer")
		}
	}

	eventProvider := sandwich.NewEventProviderWithBlacklist(producer, configuration.Producer, sandwich.LoggingEventProvider{})

	manager := sandwich.NewManager(logger, configuration, sandwich.WebsocketDialer{}, identifyProvider, eventProvider)

	var server *sandwich.StatusServer

	if configuration.HTTP.Enabled {
		server = sandwich.NewStatusServer(manager)

		go func() {
			if err := server.ListenAndServe(configuration.HTTP.Host); err != nil {
				logger.Error().Err(err).Msg("HTTP server stopped")
			}
		}()
	}

	err = manager.Start()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to start manager")
	}

	// Wait for interrupt signal to gracefully shutdown

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info().Msg("Shutting down")

	closeCtx, closeCancel := context.WithTimeout(ctx, *shutdownTimeout)
	defer closeCancel()

	if err := manager.Close(closeCtx); err != nil {
		logger.Warn().Err(err).Msg("Failed to close manager cleanly")
	}

	if err := eventProvider.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close producer")
	}

	if server != nil {
		if err := server.Shutdown(); err != nil {
			logger.Warn().Err(err).Msg("Failed to stop HTTP server")
		}
	}
}
