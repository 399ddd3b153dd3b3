package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/config"
	"github.com/concordlabs/concord/internal/broker"
	"github.com/concordlabs/concord/internal/metrics"
	"github.com/concordlabs/concord/internal/routers"
	"github.com/concordlabs/concord/internal/websocket"
	"github.com/concordlabs/concord/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize the application
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appState, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer appState.Close()

	metrics.Register()

	eventBroker := broker.NewRedisBroker(appState.Redis)
	if err := eventBroker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start event broker")
	}
	defer eventBroker.Close()
	log.Info().Msg("Event broker initialized")

	wsHub := websocket.NewHub(eventBroker)
	defer wsHub.Close()
	log.Info().Msg("Websocket hub initialized")

	r := routers.NewRouter(appState, eventBroker, wsHub)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// serve the application
	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")
	// gracefully shutdown the application
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Graceful shutdown failed: %v\n", err)
	} else {
		fmt.Println("Server exited gracefully.")
	}
}
