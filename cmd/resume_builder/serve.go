package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"github.com/valkey-io/valkey-go"
)

var (
	servePort    int
	serveNoFetch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the profile, generation, history and ATS endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or 8000)")
	serveCmd.Flags().BoolVar(&serveNoFetch, "no-fetch", false, "Disable fetching job postings by URL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare database schema: %w", err)
	}

	svc, err := newServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	var fetcher server.JobFetcher
	if !serveNoFetch {
		cache, closeCache, err := newPageCache(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeCache()
		fetcher = fetch.NewCachedFetcher(cache, nil, fetch.DefaultPageCacheTTL)
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	}, server.Dependencies{
		Store:     database,
		Docs:      svc.docs,
		Fetcher:   fetcher,
		Passwords: passwordConfig,
		JWT:       jwtConfig,
		RateLimit: ratelimit.LoadConfig(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// newPageCache connects the job page cache when Valkey is configured. A nil
// cache makes the fetcher go to the network every time.
func newPageCache(ctx context.Context, cfg config.Config) (fetch.PageCache, func(), error) {
	if cfg.ValkeyAddr == "" {
		return nil, func() {}, nil
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.ValkeyAddr},
		Password:    cfg.ValkeyPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create Valkey client: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("unable to ping Valkey: %w", err)
	}

	log.Printf("[fetch] caching job pages in Valkey at %s", cfg.ValkeyAddr)
	return fetch.NewValkeyPageCache(client), client.Close, nil
}
