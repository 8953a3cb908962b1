package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"backgrounder/internal/config"
	"backgrounder/internal/server"
	"backgrounder/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that streams background check progress and results over SSE.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT env var or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings := config.Load()
	if cmd.Flags().Changed("port") {
		settings.Port = servePort
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	rt, err := newRuntime(ctx, settings)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := server.Config{
		Port:   settings.Port,
		Runner: rt.runner,
		Resume: rt.extractor,
	}
	if rt.photos != nil {
		cfg.Photos = rt.photos
	}

	// The report archive is optional; without DATABASE_URL the server runs
	// stream-only.
	if settings.DatabaseURL != "" {
		st, err := store.Connect(ctx, settings.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer st.Close()
		if err := st.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
		cfg.Archive = st
	} else {
		log.Printf("[SERVER] DATABASE_URL not set; report archive disabled")
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	cfg.JWT = jwtCfg

	return server.New(cfg).Start()
}
