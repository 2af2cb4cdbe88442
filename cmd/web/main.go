package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/de-tools/statement-atlas/pkg/runtime/app"
	"github.com/de-tools/statement-atlas/pkg/runtime/logging"
	"github.com/de-tools/statement-atlas/pkg/server"
	"github.com/de-tools/statement-atlas/pkg/services/config"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Statement Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	svc, closeFn, err := app.NewStatementsService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create statements service: %w", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			logger.Error().Err(err).Msg("failed to close statements cache")
		}
	}()

	logger.Info().
		Str("symbol", svc.Symbol()).
		Bool("cache", cfg.Cache.Enabled).
		Msg("statements service configured")

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	web := server.NewWebAPI(server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Statements: svc,
			Logger:     logger,
		},
	})

	return web.Start(ctx)
}
