package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	authhttp "github.com/AlibekovAA/account-service/backend/internal/auth/http"
	"github.com/AlibekovAA/account-service/backend/internal/common/bootstrap"
	commonhttp "github.com/AlibekovAA/account-service/backend/internal/common/http"
	srv "github.com/AlibekovAA/account-service/backend/internal/common/server"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the account HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewAccountApp(ctx)
	if err != nil {
		return err
	}

	handler := authhttp.NewHandler(
		app.Auth,
		app.Registration,
		app.Reset,
		app.Pool,
		app.Config.RequestTimeout,
		app.Log,
	)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := srv.DefaultServerConfig(app.Config.HTTPPort)
	serverConfig.ErrorLog = app.Log
	server := srv.NewServer(serverConfig, commonhttp.BuildBaseHandler("account", app.Log, mux))

	return srv.Run(ctx, server, app.Log, "account",
		app.StopRecorder,
		app.ClosePool,
		func(context.Context) error {
			app.Log.Info("account service: resources released")
			return nil
		},
	)
}
