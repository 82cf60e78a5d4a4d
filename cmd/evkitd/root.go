package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "evkitd",
	Short: "Demo daemon for the evkit event substrate",
	Long: `evkitd wires the full substrate together in one process: a typed
event channel with a log sink attached, a tick scheduler, and a
socketpair bridge that ships every tick across the wire and posts it
back onto the channel on the receiving side.

It exists to exercise the library end to end, not to serve traffic.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		return runBridge(cfg)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
}
