package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"adguard-controller/internal/adguard"
	"adguard-controller/internal/command"
	"adguard-controller/internal/config"
	"adguard-controller/internal/dispatch"
	"adguard-controller/internal/httpapi"
	"adguard-controller/internal/mqtt"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("starting adguard-controller", "adguard", cfg.AdGuard.BaseURL)

	client := adguard.New(adguard.Config{
		BaseURL:   cfg.AdGuard.BaseURL,
		Username:  cfg.AdGuard.Username,
		Password:  cfg.AdGuard.Password,
		Timeout:   cfg.AdGuard.Timeout,
		ServiceID: cfg.AdGuard.ServiceID,
	})
	dispatcher := dispatch.New(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shared bounded queue between the MQTT listener and the
	// dispatcher's consumer loop. A full queue stalls the listener.
	commands := make(chan command.Command, cfg.MQTT.QueueSize)
	go dispatcher.Run(ctx, commands)

	listener := mqtt.NewListener(mqtt.Config{
		Host:           cfg.MQTT.Host,
		Port:           cfg.MQTT.Port,
		Username:       cfg.MQTT.Username,
		Password:       cfg.MQTT.Password,
		Topic:          cfg.MQTT.Topic,
		ReconnectDelay: cfg.MQTT.ReconnectDelay,
	}, commands)
	go listener.Run(ctx)

	srv := httpapi.New(dispatcher)
	httpSrv := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("adguard-controller listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
			cancel()
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	cancel()
}

func setupLogging(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}
