package dbcli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"genebank/btree"
	"genebank/database"
	"genebank/sequence"

	"github.com/golang/snappy"
	"github.com/spf13/cobra"
)

var (
	dumpOut    string
	dumpSnappy bool
)

// Command to write every key of a tree in ascending order
var dumpCmd = &cobra.Command{
	Use:   "dump [btree file]",
	Short: "Write every subsequence with its frequency in ascending key order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _, err := database.ParseDataFileName(args[0])
		if err != nil {
			return err
		}
		codec, err := sequence.NewCodec(k)
		if err != nil {
			return err
		}

		bt, err := btree.Open(args[0], btree.Config{}, true, btree.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("could not open b-tree: %w", err)
		}
		defer bt.Close()

		if dumpOut == "" || dumpOut == "-" {
			return writeDump(cmd.OutOrStdout(), bt, codec, dumpSnappy)
		}
		return dumpToFile(bt, codec, dumpOut, dumpSnappy)
	},
}

func dumpToFile(bt *btree.BTree, codec *sequence.Codec, path string, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("problem creating dump file: %w", err)
	}
	if err := writeDump(f, bt, codec, compress); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeDump emits one "<frequency> <subsequence>" line per key, optionally snappy framed.
func writeDump(w io.Writer, bt *btree.BTree, codec *sequence.Codec, compress bool) error {
	var sw *snappy.Writer
	if compress {
		sw = snappy.NewBufferedWriter(w)
		w = sw
	}
	out := bufio.NewWriter(w)

	err := bt.Traverse(func(freq uint32, key uint64) error {
		_, err := fmt.Fprintf(out, "%d %s\n", freq, codec.Decode(key))
		return err
	})
	if err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}
	if sw != nil {
		return sw.Close()
	}
	return nil
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "-", "Output file, - for stdout")
	dumpCmd.Flags().BoolVar(&dumpSnappy, "snappy", false, "Compress the dump with the snappy framing format")
}
