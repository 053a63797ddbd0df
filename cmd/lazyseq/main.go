// Command lazyseq demonstrates lazy versus eager evaluation of a
// filter → map → take chain, from the command line or over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/lazyseq/version"
)

const serviceName = "lazyseq"

type rootFlags struct {
	configFile string
	envFile    string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   serviceName,
		Short: "Lazy versus eager sequence evaluation",
		Long: `lazyseq runs a filter → map → take chain over a list of integers and shows
how many elements each evaluation mode touches. Lazy evaluation pulls one
element at a time and stops as soon as take is satisfied; eager evaluation
materializes every stage first.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: search ./cmd/lazyseq, ./config, .)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", ".env file (default: search ./cmd/lazyseq, .)")

	cmd.AddCommand(newRunCommand(&flags))
	cmd.AddCommand(newServeCommand(&flags))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
