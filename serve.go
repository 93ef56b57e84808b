package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"snake-server/api"
	"snake-server/config"
	"snake-server/logger"
	"snake-server/rpc"
	"snake-server/server"
)

const shutdownTimeout = 10 * time.Second

func serve() error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logger.Init()
	if port != "" {
		cfg.Port = port
	}
	if grpcPort != "" {
		cfg.GRPCPort = grpcPort
	}

	manager, err := server.NewArenaManager(cfg.Arenas)
	if err != nil {
		return err
	}
	manager.Start()

	metrics := api.NewMetricsHandler(manager)
	gameServer := server.NewGameServer(manager, cfg.CORSOrigins)
	router, err := api.NewRouter(cfg, gameServer, metrics)
	if err != nil {
		manager.StopAll()
		return err
	}
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		manager.StopAll()
		return fmt.Errorf("grpc listen: %w", err)
	}
	rpcSrv := rpc.NewServer(manager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logger.Log.WithFields(logrus.Fields{"addr": httpSrv.Addr, "arenas": len(cfg.Arenas)}).Info("Server started")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		if err := rpcSrv.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Log.Info("Shutdown signal received")
	case runErr = <-errCh:
		metrics.RecordWebSocketError(runErr.Error())
		logger.Log.WithError(runErr).Error("Server failed")
	}
	metrics.SetWebSocketStatus(api.WebSocketStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stopping arenas closes every client and spectator channel, which ends
	// their websocket and gRPC streams.
	manager.StopAll()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	rpcSrv.Shutdown(shutdownCtx)
	logger.Log.Info("Server stopped")
	return runErr
}
