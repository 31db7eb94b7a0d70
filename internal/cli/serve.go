package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/tajreba/doc-translator/internal/backend"
	"github.com/tajreba/doc-translator/internal/config"
	"github.com/tajreba/doc-translator/internal/history"
	"github.com/tajreba/doc-translator/internal/httpapi"
	"github.com/tajreba/doc-translator/internal/jobs"
	"github.com/tajreba/doc-translator/internal/library"
	"github.com/tajreba/doc-translator/internal/maintenance"
	"github.com/tajreba/doc-translator/internal/sanitize"
	"github.com/tajreba/doc-translator/pkg/log"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP translation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "HTTP listen address (overrides SERVER_ADDR)")
	flags.String("upload-dir", "", "upload directory (overrides UPLOAD_DIR)")
	flags.Bool("debug", false, "enable debug logging (overrides LOG_DEBUG)")
	_ = viper.BindPFlag("server_addr", flags.Lookup("addr"))
	_ = viper.BindPFlag("upload_dir", flags.Lookup("upload-dir"))
	_ = viper.BindPFlag("log_debug", flags.Lookup("debug"))

	return cmd
}

func runServe(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if err := log.Init(log.Options{Debug: cfg.Log.Debug, File: cfg.Log.File}); err != nil {
		return err
	}
	defer log.Sync()

	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	translator, err := newTranslator(cfg)
	if err != nil {
		return err
	}

	store, err := history.NewStore(cfg.Storage.HistoryDB)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	controller := jobs.NewController(translator,
		jobs.WithOutputDir(cfg.Storage.UploadDir),
		jobs.WithSanitizer(sanitize.NewForLanguage(cfg.Translate.TargetLanguage)),
		jobs.WithTerminalHook(func(status jobs.Status) {
			rec := history.Record{
				ID:           status.JobID,
				FileName:     status.FileName,
				Model:        status.Model,
				Phase:        string(status.Phase),
				TotalChunks:  status.TotalChunks,
				ChunksDone:   status.CurrentChunk,
				StartedAt:    status.StartedAt,
				FinishedAt:   time.Now(),
				ArtifactPath: status.ArtifactPath,
				Error:        status.Error,
			}
			if err := store.Insert(context.Background(), rec); err != nil {
				log.Warn("record job history: %v", err)
			}
		}),
	)

	scanner := library.NewScanner(cfg.Storage.UploadDir)
	server := httpapi.NewServer(controller, scanner, translator,
		httpapi.WithCORS(cfg.Server.CORSOrigins),
		httpapi.WithHistory(store),
		httpapi.WithJobDefaults(cfg.Translate.DefaultRTL, cfg.Translate.FilterThoughts),
	)

	pruner := maintenance.NewPruner(cfg.Storage.UploadDir, cfg.Storage.Retention(), maintenance.WithHistory(store))
	pruner.Start()
	defer pruner.Stop()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening on %s (backend=%s model=%s)", cfg.Server.Addr, cfg.Backend.Kind, cfg.Backend.Model)
		return server.ListenAndServe(cfg.Server.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func newTranslator(cfg *config.Config) (backend.Translator, error) {
	switch cfg.Backend.Kind {
	case "cli":
		return backend.NewOllamaCLI(cfg.Backend.Bin, cfg.Backend.Timeout), nil
	case "openai":
		return backend.NewOpenAICompatible(cfg.Backend.APIURL, cfg.Backend.APIKey, cfg.Backend.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
	}
}
