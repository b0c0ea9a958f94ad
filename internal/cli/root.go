package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gallerycat/gallerycat/internal/app"
	"github.com/gallerycat/gallerycat/internal/config"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "gallerycat",
	Short:   "Search, scrape, and catalog media galleries",
	Long:    `GalleryCat finds galleries by search term, scrapes their image assets with a headless browser, and caches the numbered catalogs locally.`,
	Version: "1.0.0",
}

// ExecuteContext runs the CLI under ctx. It is called once from main.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)

	// The application is initialized lazily so -h and completion do not
	// start anything.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp() != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(a)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a := GetApp()
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Close(ctx)
	}
}
