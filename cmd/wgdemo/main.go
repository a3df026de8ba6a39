// Command wgdemo opens a window and draws a triangle with wgrender.
//
// Usage:
//
//	wgdemo [--present-mode mailbox] [--clear '#202020'] [--metrics-addr :9100]
//
// Settings can also come from a config file (--config) or WGDEMO_*
// environment variables.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wgdemo:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wgdemo",
		Short:         "Draw a triangle into a window with wgrender",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(viper.New(), cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}
