package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gallerycat/gallerycat/internal/downloader"
	"github.com/gallerycat/gallerycat/internal/utils/output"
	"github.com/gallerycat/gallerycat/pkg/models"
)

var (
	scrapeOutput      string
	scrapeDownload    bool
	scrapeOutDir      string
	scrapeConcurrency int
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <term> <index>",
	Short: "Scrape the N-th gallery matching a search term",
	Long: `Searches the configured gallery site for a term, opens the index-th
result (1-based), walks its pages with a headless browser, and prints the
numbered asset catalog. Results are cached on disk; repeated requests for
the same term and index are served without touching the network.`,
	Example: `  # Catalog the second gallery matching "summer festival"
  gallerycat scrape "summer festival" 2

  # Export the catalog to a file
  gallerycat scrape "summer festival" 2 --output result.json
  gallerycat scrape "summer festival" 2 --output result.csv

  # Download every asset with 8 concurrent workers
  gallerycat scrape "summer festival" 2 --download --out-dir ./downloads --concurrency 8`,
	Args: cobra.ExactArgs(2),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "Write the catalog to a .json or .csv file")
	scrapeCmd.Flags().BoolVarP(&scrapeDownload, "download", "d", false, "Download every asset in the catalog")
	scrapeCmd.Flags().String("out-dir", "./downloads", "Directory for downloaded assets")
	scrapeCmd.Flags().IntVarP(&scrapeConcurrency, "concurrency", "c", 5, "Number of concurrent download workers (1-50)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	term := strings.TrimSpace(args[0])
	if term == "" {
		return fmt.Errorf("search term cannot be empty")
	}

	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("gallery index must be a number, got %q", args[1])
	}

	a := GetApp()

	bar := progressbar.NewOptions(a.Config.MaxPages,
		progressbar.OptionSetDescription("Collecting pages"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)
	progress := func(page int) {
		bar.Set(page)
	}

	result, err := a.Orchestrator.Run(cmd.Context(), term, index, progress)
	bar.Finish()
	if err != nil {
		return err
	}

	printCatalog(cmd, result)

	if scrapeOutput != "" {
		if err := saveCatalog(result, scrapeOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nCatalog written to %s\n", scrapeOutput)
	}

	if scrapeDownload {
		outDir, _ := cmd.Flags().GetString("out-dir")
		return downloadCatalog(cmd, result, outDir)
	}
	return nil
}

func printCatalog(cmd *cobra.Command, result *models.ScrapeResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%q gallery #%d: %d asset(s) (%s)\n\n", result.Term, result.Index, result.Total, result.Source)
	for _, entry := range result.Entries {
		fmt.Fprintf(out, "%4d  %-20s %s\n", entry.ID, entry.Name, entry.URL)
	}
}

func saveCatalog(result *models.ScrapeResult, path string) error {
	switch {
	case strings.HasSuffix(path, ".json"):
		return output.SaveJSON(result, path)
	case strings.HasSuffix(path, ".csv"):
		return output.SaveCSV(result, path)
	default:
		return fmt.Errorf("unsupported output format: %s (use .json or .csv)", path)
	}
}

func downloadCatalog(cmd *cobra.Command, result *models.ScrapeResult, outDir string) error {
	a := GetApp()

	pool := downloader.NewWorkerPool(scrapeConcurrency, a.Config.NavTimeout, a.Config.UserAgent)
	results := pool.DownloadBatch(cmd.Context(), result.Entries, downloader.Options{
		OutputDir: outDir,
		UserAgent: a.Config.UserAgent,
	})

	var failed int
	var totalBytes int64
	for _, r := range results {
		if !r.Success {
			failed++
			log.Warn().Str("url", r.Entry.URL).Err(r.Error).Msg("Download failed")
			continue
		}
		totalBytes += r.Size
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nDownloaded %d/%d asset(s) (%d bytes) to %s\n",
		len(results)-failed, len(results), totalBytes, outDir)
	if failed > 0 {
		return fmt.Errorf("%d download(s) failed", failed)
	}
	return nil
}
