package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

const demoScript = `
insert_back 1
insert_back 2
insert_front 0
length
render
remove_at 1
render
insert_at 9 100
length
index_of 5
`

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a short example script.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := newSession(cfg, "demo")

		err := s.run(strings.NewReader(demoScript), cmd.OutOrStdout(), nil)
		if err != nil {
			_ = s.close()
			return err
		}

		return s.close()
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
