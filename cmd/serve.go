package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/Spencer17x/vue-next-zh/handlers"
	"github.com/Spencer17x/vue-next-zh/watch"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve [config]",
	Short: "Serve a live preview of the navigation and sidebar",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(args)

		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		snap := watch.NewSnapshot(cfg)

		// The preview shows problems instead of hiding them, so reloads only
		// need to be readable.
		watcher, err := watch.NewWatcher(path, snap, logger, watch.WithLoader(config.LoadFile))
		if err != nil {
			return err
		}

		docsDir := ""
		if checkPages, _ := cmd.Flags().GetBool("pages"); checkPages {
			docsDir = settings.DocsDir
		}
		router, err := handlers.SetupRouter(snap, handlers.Options{
			Origin:  settings.Origin,
			DocsDir: docsDir,
			Logger:  logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{Addr: settings.Addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info().Str("addr", settings.Addr).Msg("Starting preview server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.WithStack(err)
			}
			return nil
		})
		g.Go(func() error {
			return watcher.Run(ctx)
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":9010", "address to listen on")
	serveCmd.Flags().String("origin", "", "site origin for the preview sitemap (default: request host)")
	serveCmd.Flags().Bool("pages", false, "report links without a markdown page under --docs-dir")
}
