package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/IDMendis/RealTimeSecureChatApp/internal"
	"github.com/IDMendis/RealTimeSecureChatApp/observability"
	"github.com/IDMendis/RealTimeSecureChatApp/repositories"
	"github.com/IDMendis/RealTimeSecureChatApp/runtime"
	"github.com/IDMendis/RealTimeSecureChatApp/runtime/workers"
	"github.com/IDMendis/RealTimeSecureChatApp/sink"
	"github.com/IDMendis/RealTimeSecureChatApp/transport"
	"github.com/IDMendis/RealTimeSecureChatApp/transport/lineproto"
	"github.com/IDMendis/RealTimeSecureChatApp/transport/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting, so every defer (like the database close) executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Core wiring: registry, rooms, router, coordinator
	registry := runtime.NewSessionRegistry()
	rooms := runtime.NewRoomStore()
	router := runtime.NewRouter(registry, rooms)
	monitor := observability.NewMonitor()

	// The coordinator delivers through a mux over both transports; the
	// mux is populated after the adapters exist.
	mux := transport.NewMux()
	coordinator := runtime.NewCoordinator(log, registry, rooms, router,
		mux, monitor, config.PersistBufferSize)

	wsHandler := ws.NewHandler(log, coordinator, config.SendBufferSize,
		config.MaxSessions, registry.Count)
	lineServer := lineproto.NewServer(log, coordinator, registry,
		fmt.Sprintf("%s:%d", config.Host, config.TCPPort), config.SendBufferSize)
	mux.Add(wsHandler, lineServer)

	// 4. Persistence pipeline + supervision
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	diskSink := sink.NewDiskSink(messageRepository, log)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewPersistWorker(log, coordinator.PersistQueue(), diskSink, config.SinkTimeout))
	sup.Add(workers.NewHeartbeatWorker(log, config.HeartbeatInterval, registry, rooms, monitor))
	sup.Add(lineServer)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)
	defer sup.Stop()

	// 6. HTTP server for the WebSocket endpoint
	httpAddr := fmt.Sprintf("%s:%d", config.Host, config.HTTPPort)
	httpMux := http.NewServeMux()
	httpMux.Handle("/ws", wsHandler)

	server := &http.Server{Addr: httpAddr, Handler: httpMux}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Info(fmt.Sprintf("Chat server listening on ws://%s/ws and tcp://%s:%d",
		httpAddr, config.Host, config.TCPPort))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}
