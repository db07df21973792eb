// Package cmd provides the command-line interface of seqctl.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/orderedseq/config"
)

var cfg config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seqctl",
	Short: "seqctl runs operation scripts against an ordered sequence.",
	Long: `seqctl runs operation scripts against an ordered sequence. ` +
		`The operations can be recorded into a SQLite database, logged, ` +
		`and the sequence can be inspected through a monitoring server.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env", ".env", "Env file to load the configuration from")
	flags.Int("capacity", 0, "Maximum number of elements, 0 for unbounded")
	flags.String("record", "", "Record the operations into this SQLite database")
	flags.Bool("log-ops", false, "Log every operation to stderr")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env")

	var err error

	cfg, err = config.Load(envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("capacity") {
		cfg.Capacity, _ = flags.GetInt("capacity")
	}

	if flags.Changed("record") {
		cfg.RecordDB, _ = flags.GetString("record")
	}

	if flags.Changed("log-ops") {
		cfg.LogOps, _ = flags.GetBool("log-ops")
	}

	return cfg.Validate()
}

func openScript(args []string) (*os.File, error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, nil
	}

	return os.Open(args[0])
}
