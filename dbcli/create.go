package dbcli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"genebank/btree"
	"genebank/database"
	"genebank/page"
	"genebank/sequence"

	"github.com/spf13/cobra"
)

var (
	useCache   bool
	cacheSize  int
	degree     int
	debugLevel int
	bankDir    string
	dumpPath   string
)

// Command to build a B-tree from a GenBank file
var createCmd = &cobra.Command{
	Use:   "create [gbk file] [sequence length]",
	Short: "Build a B-tree of subsequence frequencies from a GenBank file",
	Long: "Parses every ORIGIN section of the GenBank file, inserts each subsequence of the given " +
		"length (1-31) into a B-tree stored in <gbk>.btree.data.<length>.<degree>, and records the " +
		"root offset and degree in a .metadata file next to it.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gbk := args[0]
		k, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid sequence length %q: %w", args[1], err)
		}
		codec, err := sequence.NewCodec(k)
		if err != nil {
			return err
		}
		if debugLevel != 0 && debugLevel != 1 {
			return fmt.Errorf("%w: debug level must be 0 or 1, got %d", btree.ErrInvalidArgument, debugLevel)
		}

		t := degree
		if t == 0 {
			t = page.OptimalDegree(BlockSize)
		}
		cfg := btree.Config{Degree: t, CacheEnabled: useCache, CacheSize: cacheSize}
		if err := cfg.Validate(); err != nil {
			return err
		}

		in, err := os.Open(gbk)
		if err != nil {
			return fmt.Errorf("gbk file could not be opened: %w", err)
		}
		defer in.Close()

		dataFile := database.DataFileName(gbk, k, t)
		bt, err := btree.Create(dataFile, cfg, btree.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("couldn't create b-tree data file %s: %w", dataFile, err)
		}

		status.Fprintln(cmd.ErrOrStderr(), "Inserting sequences...")
		count, err := bt.Build(sequence.NewParser(in, codec))
		if errors.Is(err, sequence.ErrNoSequence) {
			warn.Fprintln(cmd.ErrOrStderr(), "No DNA sequence present in file")
		} else if err != nil {
			bt.Close()
			return err
		}

		status.Fprintln(cmd.ErrOrStderr(), "Recording metadata...")
		if err := bt.SaveMetadata(); err != nil {
			bt.Close()
			return err
		}

		if debugLevel == 1 {
			if err := dumpToFile(bt, codec, dumpPath, false); err != nil {
				bt.Close()
				return fmt.Errorf("problem writing dump file: %w", err)
			}
		}

		if err := bt.Close(); err != nil {
			return err
		}

		if bankDir != "" {
			bank, err := database.OpenBank(bankDir)
			if err != nil {
				return err
			}
			abs, err := filepath.Abs(dataFile)
			if err != nil {
				return err
			}
			entry, err := bank.Register(database.TreeEntry{
				Source:   gbk,
				Length:   k,
				Degree:   t,
				DataFile: abs,
				Keys:     count,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered tree '%s' in bank '%s'.\n", entry.ID, bank.ID())
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d subsequences of length %d into %s (degree %d).\n", count, k, dataFile, t)
		return nil
	},
}

func init() {
	createCmd.Flags().BoolVar(&useCache, "cache", false, "Use a recency cache of B-tree nodes")
	createCmd.Flags().IntVar(&cacheSize, "cache-size", 100, "Number of nodes held by the cache")
	createCmd.Flags().IntVar(&degree, "degree", 0, "Degree of the B-tree, 0 picks the best fit for a 4096 byte block")
	createCmd.Flags().IntVar(&debugLevel, "debug", 0, "0: status messages only, 1: also write a dump of all keys")
	createCmd.Flags().StringVar(&bankDir, "bank", "", "Register the built tree in this bank directory")
	createCmd.Flags().StringVar(&dumpPath, "dump", "dump", "Dump file written when --debug is 1")
}
