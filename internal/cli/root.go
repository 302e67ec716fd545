package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set by goreleaser via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "surfacectl",
	Short: "Black-box extraction of a CLI binary's option surface",
	Long: `surfacectl probes a binary's help text, plans targeted probe
invocations, and reports the existence and argument-binding of each
discovered option — without reading the binary's source or symbols.

  surfacectl extract <binary>          Extract and report the option surface
  surfacectl extract <binary> --sandbox  Probe inside a rootless container`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: none, flags and env only)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("surfacectl version %s\n", Version))
}
