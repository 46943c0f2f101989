package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/config"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/grpc/gameserver"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/logger"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/monitoring"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/ws"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The gRPC port (-1 to use config default)")
	host := flag.String("host", "", "The gRPC host (empty to use config default)")
	wsPort := flag.Int("ws-port", -1, "The websocket port (-1 to use config default, 0 disables)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	maxGames := flag.Int("max-games", -1, "Maximum concurrent games (-1 to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	watch := flag.Bool("watch-config", false, "Reload the config file when it changes")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = cfg.Server.GRPC.Port
	}
	if *host == "" {
		*host = cfg.Server.GRPC.Host
	}
	if *wsPort == -1 {
		*wsPort = cfg.Server.WS.Port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *maxGames == -1 {
		*maxGames = cfg.Server.GRPC.MaxGames
	}
	if !*enableReflection {
		*enableReflection = cfg.Server.GRPC.EnableReflection
	}

	logger.Init(cfg.Logging)

	log.Info().
		Int("port", *port).
		Str("host", *host).
		Int("ws_port", *wsPort).
		Int("max_games", *maxGames).
		Msg("Starting game server")

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	hub := ws.NewHub(log.Logger)
	gameManager := gameserver.NewGameManager(gameserver.ManagerConfig{
		MaxGames:             *maxGames,
		AbandonedGameTimeout: time.Duration(cfg.Server.GRPC.IdleGameTimeout) * time.Second,
		Logger:               log.Logger,
		OnCreate:             hub.Attach,
		OnRemove:             hub.CloseGame,
	})
	gameService := gameserver.NewServer(gameManager, game.DefaultGameConfig(), log.Logger)

	grpcServer := gameserver.NewGRPCServer(log.Logger)
	gameserver.RegisterGameServiceServer(grpcServer, gameService)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gameserver.GameService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if *enableReflection {
		reflection.Register(grpcServer)
		log.Info().Msg("gRPC reflection enabled")
	}

	monitor := monitoring.NewGoroutineMonitor(log.Logger, 0, 0)
	monitor.RegisterGauge("active_games", gameManager.GetActiveGames)
	monitor.RegisterGauge("ws_connections", hub.ConnectionCount)
	monitor.Start()

	var httpServer *http.Server
	if *wsPort > 0 {
		exists := func(id string) bool {
			_, ok := gameManager.GetGame(id)
			return ok
		}
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", ws.NewHandler(hub, exists, log.Logger).ServeWS)
		mux.Handle("/debug/metrics", monitor)
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		httpServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.WS.Host, *wsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("address", httpServer.Addr).Msg("Websocket server listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Websocket server failed")
			}
		}()
	}

	if *watch {
		config.WatchConfig(func() {
			zerolog.SetGlobalLevel(logger.ParseLevel(config.Get().Logging.Level))
			gameService.SetDefaults(game.DefaultGameConfig())
			log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded")
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(gameserver.GameService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(cfg.Server.GRPC.GracefulShutdownDelay) * time.Second)

		// Close game streams first, GracefulStop waits for them
		gameManager.Stop()

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()

		if httpServer != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("Websocket server shutdown")
			}
			done()
		}
		hub.Close()
		monitor.Stop()
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}
