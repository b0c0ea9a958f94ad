package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().String("search-url", "", "Search URL template containing a %s placeholder for the term")
	cmd.PersistentFlags().String("storage-root", "", "Directory for the gallery cache")
	cmd.PersistentFlags().String("proxy", "", "Set HTTP/SOCKS5 proxy (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", "30s", "Per-navigation timeout")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().Bool("headful", false, "Run the browser with a visible window (debugging)")
}
