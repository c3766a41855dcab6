package dbcli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BlockSize is the disk block a degree of 0 is fitted to.
const BlockSize = 4096

var (
	verbose bool
	logger  = zap.NewNop().Sugar()

	status = color.New(color.FgCyan)
	warn   = color.New(color.FgYellow)
)

// Root command for the CLI
var RootCmd = &cobra.Command{
	Use:   "genebank",
	Short: "Build and query on-disk B-trees of DNA subsequence counts",
	Long: "genebank indexes every length-k subsequence of the DNA in a GenBank file into a B-tree " +
		"stored on disk, then answers frequency queries against it.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.Sugar(), nil
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log tree activity to stderr")

	RootCmd.AddCommand(createCmd)
	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(dumpCmd)
	RootCmd.AddCommand(verifyCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(serveCmd)
}
