package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mdtutor/mdtutor/internal/config"
	"github.com/mdtutor/mdtutor/internal/crawler"
	collyfetcher "github.com/mdtutor/mdtutor/internal/fetcher/colly"
	"github.com/mdtutor/mdtutor/internal/ratelimit"
	"github.com/mdtutor/mdtutor/internal/storage"
)

type crawlFlags struct {
	selectorType   string
	selectorValue  string
	preRemoveType  string
	preRemoveValue string
	filename       string
	preset         string
}

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	var flags crawlFlags

	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl one tutorial site and write the assembled Markdown",
		Long: `Fetches the entry page, extracts links from the element addressed by
--type/--value, downloads every discovered page, and writes a single
combined Markdown file under the configured output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawlCommand(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.selectorType, "type", "class", "link container selector type (class, id, tag)")
	cmd.Flags().StringVar(&flags.selectorValue, "value", "", "link container selector value")
	cmd.Flags().StringVar(&flags.preRemoveType, "pre-remove-type", "", "selector type of elements stripped from every page")
	cmd.Flags().StringVar(&flags.preRemoveValue, "pre-remove-value", "", "selector values stripped from every page (pipe-delimited)")
	cmd.Flags().StringVar(&flags.filename, "filename", "", "output filename (default tutorial.md)")
	cmd.Flags().StringVar(&flags.preset, "job", "", "named job preset from the config file")

	return cmd
}

func runCrawlCommand(cmd *cobra.Command, rawURL string, flags crawlFlags) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	job, err := buildJob(cfg, rawURL, flags)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, job, logger)
	if err != nil {
		return err
	}

	artifact, err := engine.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}

	logger.Info("crawl finished", zap.String("artifact", artifact))
	fmt.Fprintln(cmd.OutOrStdout(), artifact)
	return nil
}

// buildJob merges a named preset (if any) with explicit flags; explicit
// flags win.
func buildJob(cfg config.Config, rawURL string, flags crawlFlags) (crawler.Job, error) {
	if flags.preset != "" {
		preset, ok := cfg.Jobs[flags.preset]
		if !ok {
			return crawler.Job{}, fmt.Errorf("unknown job preset: %q", flags.preset)
		}
		if flags.selectorValue == "" {
			flags.selectorType = preset.Type
			flags.selectorValue = preset.Value
		}
		if flags.preRemoveValue == "" && preset.PreRemoveValue != "" {
			flags.preRemoveType = preset.PreRemoveType
			flags.preRemoveValue = preset.PreRemoveValue
		}
		if flags.filename == "" {
			flags.filename = preset.Filename
		}
	}
	if flags.selectorValue == "" {
		return crawler.Job{}, fmt.Errorf("--value is required (or use --job with a config preset)")
	}

	job := crawler.Job{
		BaseURL: rawURL,
		Selector: crawler.Selector{
			Type:  crawler.SelectorType(flags.selectorType),
			Value: flags.selectorValue,
		},
		Filename:  flags.filename,
		OutputDir: cfg.Crawler.OutputDir,
	}
	if flags.preRemoveType != "" && flags.preRemoveValue != "" {
		job.PreRemove = &crawler.Selector{
			Type:  crawler.SelectorType(flags.preRemoveType),
			Value: flags.preRemoveValue,
		}
	}
	if err := job.Validate(); err != nil {
		return crawler.Job{}, err
	}
	return job, nil
}

// buildEngine assembles the pipeline collaborators for one job.
func buildEngine(cfg config.Config, job crawler.Job, logger *zap.Logger) (*crawler.Crawler, error) {
	store, err := storage.NewFSProvider(cfg.Crawler.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	}, logger)
	gate := ratelimit.New(cfg.FetchDelay())
	conv := crawler.NewConverter(logger)

	return crawler.New(job, fetcher, store, conv, gate, logger), nil
}
