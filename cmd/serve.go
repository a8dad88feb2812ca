package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eleanorewu/folio/internal/catalog"
	"github.com/eleanorewu/folio/internal/dottext"
	"github.com/eleanorewu/folio/internal/palette"
	"github.com/eleanorewu/folio/internal/server"
	"github.com/eleanorewu/folio/internal/store"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	cleanupInterval   = time.Hour
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the web server",
		Long: `Start the portfolio web server.

The server warms the gallery colour cache in the background, prunes visit
records older than site.retention every hour and shuts down gracefully on
SIGINT or SIGTERM.

Examples:
  folio serve
  folio serve --port 3000 --db /var/lib/folio/folio.db
  PORT=3000 ADMIN_PASSWORD=... folio serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return o.serve(ctx)
		},
	}
	cmd.Flags().StringP("port", "p", "", "listen port or host:port (default 8080)")
	cmd.Flags().String("mode", "", "gin mode: debug, release or test")
	cmd.Flags().String("db", "", "SQLite database path (default folio.db)")
	cmd.Flags().String("font", "", "TTF/OTF font for the hero dot text (default Go Bold)")
	return cmd
}

func (o *options) serve(ctx context.Context) error {
	cfg, logger := o.cfg, o.logger

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg.DB.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	dots, err := dottext.NewRendererFromFile(cfg.Site.FontPath)
	if err != nil {
		return err
	}
	defer dots.Close()

	extractor := palette.NewExtractor(
		palette.WithCache(st),
		palette.WithTimeout(cfg.Palette.Timeout),
		palette.WithWorkers(cfg.Palette.Workers),
		palette.WithLogger(logger),
	)

	deps := server.Deps{
		Catalog: cat,
		Store:   st,
		Palette: extractor,
		Dots:    dots,
		Logger:  logger,
	}
	if m := server.NewSMTPMailer(cfg.SMTP); m != nil {
		deps.Mailer = m
	} else {
		logger.Warn("SMTP credentials not set, contact messages are stored but not mailed")
	}
	srv, err := server.New(cfg, deps)
	if err != nil {
		return err
	}
	defer srv.Wait()

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", httpSrv.Addr, "db", cfg.DB.Path, "font", dots.FontName())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		start := time.Now()
		if err := extractor.Warm(ctx, cat.Thumbnails()); err != nil {
			logger.Debug("palette warm-up stopped", "err", err)
			return nil
		}
		logger.Info("palette warm-up done", "projects", cat.Len(), "took", time.Since(start))
		return nil
	})
	g.Go(func() error {
		prune(ctx, srv, logger)
		return nil
	})
	return g.Wait()
}

type cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// prune runs the visit retention cleanup now and then every cleanupInterval
// until ctx is done.
func prune(ctx context.Context, c cleaner, logger *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		if _, err := c.Cleanup(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("visit cleanup failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
