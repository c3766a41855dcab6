package dbcli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"genebank/btree"
	"genebank/database"
	"genebank/sequence"

	"github.com/spf13/cobra"
)

var (
	searchCache      bool
	searchCacheSize  int
	searchDebugLevel int
)

// Command to look up subsequence frequencies
var searchCmd = &cobra.Command{
	Use:   "search [btree file] [query file]",
	Short: "Print the frequency of every subsequence listed in a query file",
	Long: "Each line of the query file is one subsequence whose length must match the length the " +
		"B-tree was built with. Results are printed as <frequency>\\t<subsequence>.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if searchDebugLevel != 0 {
			return fmt.Errorf("%w: only debug level 0 is supported", btree.ErrInvalidArgument)
		}

		k, _, err := database.ParseDataFileName(args[0])
		if err != nil {
			return err
		}
		codec, err := sequence.NewCodec(k)
		if err != nil {
			return err
		}

		cfg := btree.Config{CacheEnabled: searchCache, CacheSize: searchCacheSize}
		bt, err := btree.Open(args[0], cfg, true, btree.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("could not open b-tree: %w", err)
		}
		defer bt.Close()

		queries, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("invalid query file: %w", err)
		}
		defer queries.Close()

		if err := runQueries(cmd.OutOrStdout(), queries, bt, codec); err != nil {
			return err
		}
		logger.Debugw("search finished", "stats", bt.Stats())
		return nil
	},
}

// runQueries answers one query per non-blank line of r.
func runQueries(w io.Writer, r io.Reader, bt *btree.BTree, codec *sequence.Codec) error {
	out := bufio.NewWriter(w)
	defer out.Flush()

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if len(query) != codec.Length() {
			return fmt.Errorf("query file line %d: subsequence length %d doesn't match b-tree length %d", line, len(query), codec.Length())
		}
		key, err := codec.Encode(query)
		if err != nil {
			return fmt.Errorf("query file line %d: %w", line, err)
		}
		freq, err := bt.Search(key)
		if err != nil {
			return fmt.Errorf("search for %s failed: %w", query, err)
		}
		fmt.Fprintf(out, "%d\t%s\n", freq, query)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read query file: %w", err)
	}
	return nil
}

func init() {
	searchCmd.Flags().BoolVar(&searchCache, "cache", false, "Use a recency cache of B-tree nodes")
	searchCmd.Flags().IntVar(&searchCacheSize, "cache-size", 100, "Number of nodes held by the cache")
	searchCmd.Flags().IntVar(&searchDebugLevel, "debug", 0, "Only 0 is supported: results on stdout, status on stderr")
}
