// Package cmd defines the auraflow command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stigoleg/auraflow/internal/config"
)

// RunFunc runs the application once configuration has been resolved.
type RunFunc func(cmd *cobra.Command, cfg *config.Config) error

// NewRootCmd builds the root command. Flags are bound into v, so the
// precedence is flag, then environment, then config file, then default.
func NewRootCmd(version string, v *viper.Viper, run RunFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "auraflow",
		Short: "Keep your session active by nudging the pointer while you are idle",
		Long: `Auraflow watches the mouse pointer. When it has not moved for the idle
threshold it nudges the pointer by a few pixels every jiggle interval, and
stops as soon as you move it yourself.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfgFile, _ := cmd.Flags().GetString(config.KeyConfig)
			if err := config.Init(v, cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}
	root.SetVersionTemplate("Auraflow Version: {{.Version}}\n")

	flags := root.Flags()
	flags.String(config.KeyConfig, "", "config file (default is $HOME/.config/auraflow/config.yaml)")
	flags.StringP("idle-threshold", "i", "120", "seconds without pointer movement before jiggling (e.g., \"120\" or \"2m\")")
	flags.StringP("jiggle-interval", "j", "60", "seconds between jiggles while idle (e.g., \"60\" or \"1m\")")
	flags.StringP("backend", "b", "auto", "pointer backend: auto, robotgo, xdotool")
	flags.Bool("headless", false, "run without the TUI and log events to stderr")
	flags.BoolP("autostart", "s", false, "start jiggling immediately")
	flags.StringP("duration", "d", "", "stop automatically after this long (e.g., \"2h30m\" or \"150\" minutes)")
	flags.StringP("clock", "c", "", "stop automatically at this time (e.g., \"22:00\" or \"10:00PM\")")
	flags.String("log-file", "debug.log", "log file used while the TUI is running")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address (e.g., \"127.0.0.1:9477\")")

	bindings := map[string]string{
		config.KeyIdleThreshold:  "idle-threshold",
		config.KeyJiggleInterval: "jiggle-interval",
		config.KeyBackend:        "backend",
		config.KeyHeadless:       "headless",
		config.KeyAutostart:      "autostart",
		config.KeyDuration:       "duration",
		config.KeyClock:          "clock",
		config.KeyLogFile:        "log-file",
		config.KeyMetricsAddr:    "metrics-addr",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}

	return root
}
