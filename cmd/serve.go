package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendorguard/helpassist/internal/assistant"
	"github.com/vendorguard/helpassist/internal/config"
	"github.com/vendorguard/helpassist/internal/db"
	"github.com/vendorguard/helpassist/internal/knowledge"
	"github.com/vendorguard/helpassist/internal/resolver"
	"github.com/vendorguard/helpassist/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the help assistant server",
	Long:  `Starts the helpassist server with the knowledge base admin API and the assistant widget websocket endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}

		level := config.ParseLevel(cfg.LogLevel)
		logger, cleanup := config.SetupLogger(filepath.Join(cfg.DataDir, cfg.LogFile), level)
		defer cleanup()

		dbPath := filepath.Join(cfg.DataDir, "helpassist.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := knowledge.NewStore(database)
		res := resolver.New(store, logger)

		seed := cfg.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		// One host per websocket connection: each browser tab owns its
		// own widget state.
		factory := assistant.HostFactory(func(notify func(assistant.Event)) *assistant.Host {
			return assistant.NewHost(res, assistant.Options{
				DelayMin: time.Duration(cfg.ReplyDelayMinMS) * time.Millisecond,
				DelayMax: time.Duration(cfg.ReplyDelayMaxMS) * time.Millisecond,
				Rand:     rand.New(rand.NewSource(seed)),
				Notify:   notify,
			})
		})

		srv := server.New(server.Config{
			Port:     cfg.Port,
			DataDir:  cfg.DataDir,
			AllowAll: cfg.AllowAll,
		}, database, logger)

		knowledge.RegisterRoutes(srv.Router(), store)
		assistant.RegisterRoutes(srv.Router(), factory, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "helpassist %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
