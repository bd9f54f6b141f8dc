// Package cli implements cmsctl, a command line client for the content
// bridge. It reads content, builds asset URLs and fires the same
// revalidation and rebuild flows the webhooks run.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/getmentor/contentbridge/config"
	"github.com/getmentor/contentbridge/internal/app"
	"github.com/getmentor/contentbridge/internal/services"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/spf13/cobra"
)

// Services are the operations the commands drive
type Services struct {
	Content      services.ContentServiceInterface
	Revalidation services.RevalidationServiceInterface
	Rebuild      services.RebuildServiceInterface
}

// Loader builds the services on first use so --help works without configuration
type Loader func(verbose bool) (*Services, error)

// Execute runs the root command with configuration from the environment
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand(loadFromEnv).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the cmsctl command tree
func NewRootCommand(load Loader) *cobra.Command {
	var verbose bool
	var svc *Services

	root := &cobra.Command{
		Use:           "cmsctl",
		Short:         "Read CMS content and trigger site revalidation",
		Long:          `cmsctl talks to the Directus content API and the site's revalidation and build hooks using the same configuration as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			svc, err = load(verbose)
			return err
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stdout while running")

	get := func() *Services { return svc }
	root.AddCommand(
		newItemsCommand(get),
		newItemCommand(get),
		newPathsCommand(get),
		newAssetCommand(get),
		newSrcSetCommand(get),
		newRevalidateCommand(get),
		newRebuildCommand(get),
	)
	return root
}

func loadFromEnv(verbose bool) (*Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose {
		if err := logger.Initialize(logger.Config{
			Level:       cfg.Logging.Level,
			Environment: "development",
			ServiceName: "cmsctl",
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	c := app.New(cfg)
	return &Services{
		Content:      c.Content,
		Revalidation: c.Revalidation,
		Rebuild:      c.Rebuild,
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
