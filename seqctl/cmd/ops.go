package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/orderedseq/recording"
	"github.com/sarchlab/orderedseq/seq"
)

var opsCmd = &cobra.Command{
	Use:   "ops [database]",
	Short: "List the operations recorded in a database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := recording.OpenReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		query := recording.OpQuery{}
		query.Sequence, _ = cmd.Flags().GetString("sequence")
		query.Kind, _ = cmd.Flags().GetString("kind")

		ops, err := reader.ListOps(query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, op := range ops {
			if op.Kind == string(seq.OpFree) {
				fmt.Fprintf(out, "%s\t%s\t%s\treleased=%d\n",
					op.ID, op.Sequence, op.Kind, op.Count)

				continue
			}

			fmt.Fprintf(out, "%s\t%s\t%s\tindex=%d\tvalue=%d\tlen=%d\n",
				op.ID, op.Sequence, op.Kind, op.Index, op.Value, op.Len)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(opsCmd)
	opsCmd.Flags().String("sequence", "", "Only list the operations of this sequence")
	opsCmd.Flags().String("kind", "", "Only list the operations of this kind")
}
