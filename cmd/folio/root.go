package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/internal/config"
	"github.com/eringen/folio/internal/logger"
	"github.com/eringen/folio/notion"
)

var (
	cfgFile  string
	logLevel string

	loader    *config.Loader
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "A portfolio and blog served from your workspace databases",
	Long: `folio renders the posts and projects kept in two workspace databases as a
personal website. Without credentials it serves built-in placeholder content.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./folio.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

func initializeConfig() error {
	loader = config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	appConfig = cfg
	return nil
}

// skipConfig replaces the root pre-run for commands that work without a
// readable configuration.
func skipConfig(*cobra.Command, []string) error { return nil }

// newFetcher wires the workspace client into a content fetcher. Without a
// token the fetcher gets no collaborators and serves placeholders.
func newFetcher(cfg config.Config, log logger.Logger) *content.Fetcher {
	var (
		ws       content.Workspace
		resolver content.Resolver
	)
	if cfg.Configured() {
		client := notion.New(cfg.Notion.Token,
			notion.WithBaseURL(cfg.Notion.BaseURL),
			notion.WithTimeout(cfg.Notion.Timeout),
			notion.WithLogger(log),
		)
		ws = client
		resolver = content.ResolverFunc(func(ctx context.Context, id string) (content.Detail, error) {
			rm, err := client.ResolvePage(ctx, id)
			if err != nil {
				return nil, err
			}
			return rm, nil
		})
	}
	return content.NewFetcher(ws, resolver, cfg.FetcherConfig(), content.WithLogger(log))
}
