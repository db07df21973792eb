package cmd

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a script against a fresh sequence.",
	Long: "`run script.txt` executes the commands of the script and prints " +
		"the result of every query. The script is read from stdin when no " +
		"file is given.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openScript(args)
		if err != nil {
			return err
		}
		defer in.Close()

		s := newSession(cfg, "seqctl")

		err = s.run(in, cmd.OutOrStdout(), nil)
		if err != nil {
			_ = s.close()
			return err
		}

		if stats, _ := cmd.Flags().GetBool("stats"); stats {
			s.printStats(cmd.ErrOrStderr())
		}

		return s.close()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("stats", false,
		"Print how many insertions and removals were performed")
}
