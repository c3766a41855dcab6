package dbcli

import (
	"genebank/server"

	"github.com/spf13/cobra"
)

var (
	serveBankDir   string
	serveAddr      string
	serveCacheSize int
)

// Command to expose registered trees over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve frequency queries for the trees of a bank over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Server(server.Options{
			BankDir:   serveBankDir,
			Addr:      serveAddr,
			CacheSize: serveCacheSize,
			Logger:    logger,
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveBankDir, "bank", "bank", "Bank directory")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":3000", "Listen address")
	serveCmd.Flags().IntVar(&serveCacheSize, "cache-size", 100, "Nodes cached per open tree, 0 disables the cache")
}
