// Command kvcodecbench exercises the codec facade end to end: synthesize a
// random KV tensor, encode it, and report blob statistics. This is the
// ambient "exercise the library" surface the teacher ships as example
// programs, rebuilt here as a Cobra subcommand tool since the domain needs
// configuration flags (model name, chunk size, bin bands) rather than a
// fixed demo.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kvcodecbench",
	Short: "Encode a synthetic KV tensor and report blob statistics",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
