package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"midi-clock/midi"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI output ports",
	Long: `List the MIDI output ports visible to the system, with the indices
accepted by 'run --port'.`,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	defer midi.Close()

	names, err := midi.OutputNames()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("No MIDI output ports found.")
		return nil
	}

	fmt.Println("MIDI output ports:")
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}
