// Command uistate replays UI mutation scripts and inspects the snapshots
// they leave behind.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/atdiar/uistate"
	"github.com/atdiar/uistate/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	storeDir   string
	cfg        = config.Default()
)

var rootCmd = &cobra.Command{
	Use:           "uistate",
	Short:         "Replay UI state scripts and inspect their change stream",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c
		}
		if storeDir != "" {
			cfg.StoreDir = storeDir
		}
		return cfg.Apply()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", "", "snapshot store directory (overrides the configuration)")
	rootCmd.AddCommand(replayCmd, snapshotCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Log.Error("command failed", "err", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
