package dbcli

import (
	"fmt"
	"text/tabwriter"

	"genebank/btree"
	"genebank/database"

	"github.com/spf13/cobra"
)

// Command to check the structure of a persisted tree
var verifyCmd = &cobra.Command{
	Use:   "verify [btree file]",
	Short: "Check the B-tree invariants of a persisted tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bt, err := btree.Open(args[0], btree.Config{}, true, btree.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("could not open b-tree: %w", err)
		}
		defer bt.Close()

		report, err := bt.Verify()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d nodes, %d keys, height %d, degree %d\n",
			report.Nodes, report.Keys, report.Height, bt.Degree)
		return nil
	},
}

var listBankDir string

// Command to list the trees registered in a bank
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the trees registered in a bank",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := database.OpenBank(listBankDir)
		if err != nil {
			return fmt.Errorf("error loading bank: %w", err)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLENGTH\tDEGREE\tKEYS\tSOURCE")
		for _, tree := range bank.ListTrees() {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", tree.ID, tree.Length, tree.Degree, tree.Keys, tree.Source)
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().StringVar(&listBankDir, "bank", "bank", "Bank directory")
}
