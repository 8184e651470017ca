package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "midiclock",
	Short: "A MIDI clock master with LED matrix tempo display",
	Long: `midiclock emits MIDI clock pulses at 24 PPQN to every open output port,
with Start/Stop transport control and a joystick-adjustable tempo shown
on a Sense HAT LED matrix (or a terminal emulation of it).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
