package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/orderedseq/monitoring"
	"github.com/sarchlab/orderedseq/script"
)

var serveCmd = &cobra.Command{
	Use:   "serve [script]",
	Short: "Run a script and serve the sequence until interrupted.",
	Long: `Run a script and serve the sequence on the monitoring server. ` +
		`The server stops on SIGINT, SIGTERM, or when the command context ` +
		`is cancelled.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.MonitorPort, _ = flags.GetInt("port")
		}

		if flags.Changed("open") {
			cfg.OpenBrowser, _ = flags.GetBool("open")
		}

		in, err := openScript(args)
		if err != nil {
			return err
		}
		defer in.Close()

		s := newSession(cfg, "seqctl")
		defer func() { _ = s.close() }()

		lock := &sync.Mutex{}
		monitor := monitoring.NewMonitor().
			WithPortNumber(cfg.MonitorPort).
			WithBrowser(cfg.OpenBrowser)
		monitor.RegisterSequence(s.seq, lock)

		url, err := monitor.StartServer()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s at %s\n", s.seq.Name(), url)

		var bar *monitoring.ProgressBar

		lock.Lock()
		err = s.run(in, cmd.OutOrStdout(), func(total int) script.Progress {
			bar = monitor.CreateProgressBar("script", uint64(total))
			return bar
		})
		lock.Unlock()

		if bar != nil {
			monitor.CompleteProgressBar(bar)
		}

		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(
			cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second)
		defer cancel()

		return monitor.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port of the monitoring server")
	serveCmd.Flags().Bool("open", false, "Open the monitoring page in a browser")
}
