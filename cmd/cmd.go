package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shipengqi/reginv/pkg/log"
)

var (
	_defaultBaseDir    = "/var/opt/reginv"
	_defaultConfigFile = _defaultBaseDir + "/reginv.yaml"
	_defaultLogFile    = _defaultBaseDir + "/reginv.log"
	_lockSuffix        = ".lock"
)

type globalOptions struct {
	logFile string
	debug   bool
}

func NewReginvCommand() *cobra.Command {
	g := &globalOptions{}
	reginvCmd := &cobra.Command{
		Use:           "reginv",
		Short:         "reginv exports the image inventory of a container registry.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(g.logFile, g.debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	// Disable commands sorting
	cobra.EnableCommandSorting = false
	// Reset Flags
	reginvCmd.ResetFlags()
	reginvCmd.PersistentFlags().StringVar(&g.logFile, "log-file", _defaultLogFile, "Log file path.")
	reginvCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Write debug entries to the log file.")
	// Add sub commands
	reginvCmd.AddCommand(exportCommand())
	reginvCmd.AddCommand(paramCommand())
	reginvCmd.AddCommand(randomCommand())
	return reginvCmd
}

// signalContext returns a context that is cancelled on SIGINT, SIGTERM or
// SIGQUIT.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		select {
		case s := <-c:
			switch s {
			case syscall.SIGINT: // kill -SIGINT XXXX or Ctrl+c
				log.Warn("[SIGNAL] Catch SIGINT")
			case syscall.SIGTERM: // kill -SIGTERM XXXX
				log.Warn("[SIGNAL] Catch SIGTERM")
			case syscall.SIGQUIT: // kill -SIGQUIT XXXX
				log.Warn("[SIGNAL] Catch SIGQUIT")
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()
	return ctx, cancel
}
