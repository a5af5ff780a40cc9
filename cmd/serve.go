package cmd

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amgomez49/SF-desuscripcion/internal/app"
	"github.com/amgomez49/SF-desuscripcion/internal/config"
	"github.com/amgomez49/SF-desuscripcion/internal/server"
	"github.com/amgomez49/SF-desuscripcion/internal/store"
)

var serveFlags struct {
	addr      string
	db        string
	assets    string
	wasmDir   string
	rateRPS   float64
	rateBurst int
	grace     time.Duration
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development endpoint",
	Long:  `Serve the unsubscribe page with its assets and record the unsubscriptions it posts.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		dbPath := serveFlags.db
		if dbPath == "" {
			dbPath, err = config.StorePath()
			if err != nil {
				log.Fatalf("Failed to resolve database path: %v", err)
			}
		}

		page, err := app.LoadPage(cfg)
		if err != nil {
			log.Fatalf("Failed to load page: %v", err)
		}

		st, err := store.Open(dbPath)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer st.Close()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		httpServer := &http.Server{
			Addr: serveFlags.addr,
			Handler: server.New(st, server.Options{
				Page:      page,
				AssetsDir: serveFlags.assets,
				WasmDir:   serveFlags.wasmDir,
				RateRPS:   serveFlags.rateRPS,
				RateBurst: serveFlags.rateBurst,
				Logger:    logger,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("listening", "addr", serveFlags.addr, "db", dbPath)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), serveFlags.grace)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		logger.Info("server stopped")
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveFlags.db, "db", "", "sqlite database path (defaults to the config directory)")
	serveCmd.Flags().StringVar(&serveFlags.assets, "assets", "", "directory served under /assets/")
	serveCmd.Flags().StringVar(&serveFlags.wasmDir, "wasm-dir", "", "directory served under /wasm/")
	serveCmd.Flags().Float64Var(&serveFlags.rateRPS, "rate", 5, "unsubscribe requests per second per client")
	serveCmd.Flags().IntVar(&serveFlags.rateBurst, "burst", 10, "unsubscribe request burst per client")
	serveCmd.Flags().DurationVar(&serveFlags.grace, "grace", 5*time.Second, "shutdown grace period")
	rootCmd.AddCommand(serveCmd)
}
