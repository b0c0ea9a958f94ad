package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gallerycat/gallerycat/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scraped catalogs over HTTP",
	Long: `Starts an HTTP server exposing the scraping engine: a JSON API under
/api and an HTML gallery view. Concurrent requests for the same term and
index share a single scrape.`,
	Example: `  gallerycat serve
  gallerycat serve --addr :9090

  # Then:
  #   curl localhost:9090/api/galleries/summer%20festival/2
  #   open http://localhost:9090/galleries/summer%20festival/2`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a := GetApp()

	addr := serveAddr
	if addr == "" {
		addr = a.Config.ListenAddr
	}

	srv := server.NewServer(addr, a.Orchestrator, a.Store)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-cmd.Context().Done():
		log.Info().Msg("Shutting down HTTP server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
