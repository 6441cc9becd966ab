// Package cli wires configuration, logging, the loaders and the publishers
// into the khobor-topics command tree.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/khobor-topics/internal/config"
	"github.com/Adda-Baaj/khobor-topics/internal/logger"
	"github.com/Adda-Baaj/khobor-topics/pkg/backend"
	"github.com/Adda-Baaj/khobor-topics/pkg/httpclient"
)

// Options override runtime collaborators, mainly for tests.
type Options struct {
	// Now replaces the wall clock used for the default date window.
	Now func() time.Time
	// Logger replaces the configured zap logger.
	Logger logger.Logger
}

type app struct {
	opts Options

	cfgFile string
	baseURL string
	publish bool
	pretty  bool

	cfg *config.Config
	log logger.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "khobor-topics",
		Short: "Load topic reports from the fact-check articles backend",
		Long: `khobor-topics prepares the two report views served by the articles backend.

Example usage:
  khobor-topics topic-counts                               # last 30 days
  khobor-topics topic-counts --medium podcast
  khobor-topics articles-by-topic climate --published-after 2024-06-01
  khobor-topics articles-by-topic climate --summary
  khobor-topics topic-counts --publish                     # relay to configured publishers`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			logger.Sync(a.log)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.StringVar(&a.baseURL, "base-url", "", "backend base URL (overrides backend.base_url)")
	flags.BoolVar(&a.publish, "publish", false, "relay the loaded page to every enabled publisher")
	flags.BoolVar(&a.pretty, "pretty", false, "indent JSON output")

	root.AddCommand(a.topicCountsCommand(), a.articlesByTopicCommand())
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if base := strings.TrimSpace(a.baseURL); base != "" {
		cfg.Backend.BaseURL = strings.TrimRight(base, "/")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if a.opts.Logger != nil {
		a.log = a.opts.Logger
	} else {
		log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		a.log = log
	}

	a.log.DebugObj("configuration loaded", "config_loaded", map[string]any{
		"base_url":        cfg.Backend.BaseURL,
		"timeout":         cfg.Backend.Timeout.String(),
		"publishers_file": cfg.Publishers.File,
	})
	return nil
}

func (a *app) backendClient() *backend.Client {
	http := httpclient.NewRestyClient(a.cfg.Backend.Timeout, httpclient.WithUserAgent(a.cfg.Backend.UserAgent))
	return backend.NewClient(a.cfg.Backend.BaseURL, http, a.log)
}

func (a *app) now() time.Time {
	if a.opts.Now != nil {
		return a.opts.Now()
	}
	return time.Now()
}
