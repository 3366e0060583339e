package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/internal/config"
	"github.com/eringen/folio/internal/logger"
	"github.com/eringen/folio/views"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site",
	Long: `The serve command starts the web server. With --watch it also rebuilds the
workspace client from the new notion and content settings, applies the new
profile and drops cached listings whenever the config file changes. Listen
address and site settings still need a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewLogger(appConfig.Log.Level)

		site := appConfig.SiteConfig()
		if serveAddr != "" {
			site.Addr = serveAddr
		}
		if !appConfig.Configured() {
			log.Warn("no workspace token configured, serving placeholder content")
		}

		app := folio.New(site, newFetcher(appConfig, log), views.Default(),
			folio.WithLogger(log),
			folio.WithStaticDir(appConfig.Site.StaticDir),
		)

		if serveWatch {
			loader.Watch(func(cfg config.Config, err error) {
				if err != nil {
					log.Errorf("config reload failed: %v", err)
					return
				}
				if !cfg.Configured() {
					log.Warn("no workspace token configured, serving placeholder content")
				}
				app.Reload(newFetcher(cfg, log))
				app.UpdateProfile(cfg.Profile)
				log.Infof("reloaded %s", loader.FileUsed())
			})
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- app.Start() }()

		select {
		case err := <-errCh:
			_ = app.Close()
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides site.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the profile when the config file changes")
	rootCmd.AddCommand(serveCmd)
}
